package interfaces

import (
	"context"

	"llm-news-desk/internal/types"
)

// Pipeline runs one batch over the news feed.
type Pipeline interface {
	Run(ctx context.Context) (*types.RunSummary, error)
}

// ItemSynthesizer turns one news item into an Insight. It never fails.
type ItemSynthesizer interface {
	Synthesize(ctx context.Context, item types.NewsItem) types.Insight
}

// Ledger is the read side of a run's score ledger.
type Ledger interface {
	Len() int
	Render() string
}

// Reporter writes and delivers the end-of-run narrative. It returns nil when
// nothing was produced.
type Reporter interface {
	Publish(ctx context.Context, ledger Ledger) *types.Report
}
