package interfaces

import (
	"context"

	"llm-news-desk/internal/types"
)

// InsightStore persists one document per insight.
type InsightStore interface {
	Save(ctx context.Context, record types.InsightRecord) error
	Name() string
}
