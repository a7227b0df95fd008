package interfaces

import (
	"context"

	"llm-news-desk/internal/types"
)

// FeedSource returns news items in the source's own order.
type FeedSource interface {
	Fetch(ctx context.Context) ([]types.NewsItem, error)
	Name() string
}
