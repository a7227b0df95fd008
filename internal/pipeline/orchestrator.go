package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/store"
	"llm-news-desk/internal/trace"
	"llm-news-desk/internal/types"
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Orchestrator drives one batch: fetch, analyze each item in order, persist,
// then hand the ledger to the reporter.
type Orchestrator struct {
	feed      interfaces.FeedSource
	synth     interfaces.ItemSynthesizer
	store     interfaces.InsightStore
	reporter  interfaces.Reporter
	batchSize int
	delay     time.Duration
	language  string

	sleep Sleeper
	now   func() time.Time
	newID func() string
}

var _ interfaces.Pipeline = (*Orchestrator)(nil)

type Option func(*Orchestrator)

func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithRunIDGenerator(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

func New(cfg *store.Config, feed interfaces.FeedSource, synth interfaces.ItemSynthesizer,
	st interfaces.InsightStore, reporter interfaces.Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		feed:      feed,
		synth:     synth,
		store:     st,
		reporter:  reporter,
		batchSize: cfg.Pipeline.BatchSize,
		delay:     cfg.ItemDelay(),
		language:  cfg.Language,
		sleep:     SleepContext,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes one batch. Only a feed failure or ctx cancellation is returned
// as an error; per-item failures are logged and recorded in the summary.
func (o *Orchestrator) Run(ctx context.Context) (*types.RunSummary, error) {
	summary := &types.RunSummary{
		RunID:     o.newID(),
		StartedAt: o.now(),
	}
	ctx = logger.WithRunID(ctx, summary.RunID)

	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	timer := logger.StartOperation(ctx, "fetch_feed", "source", o.feed.Name())
	items, err := o.feed.Fetch(timer.GetContext())
	if err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("fetch feed %s: %w", o.feed.Name(), err)
	}
	timer.End("items", len(items))

	if len(items) > o.batchSize {
		items = items[:o.batchSize]
	}
	logger.Info(ctx, "Starting batch",
		"source", o.feed.Name(),
		"items", len(items),
		"item_delay", o.delay.String(),
	)

	ledger := NewLedger()
	for i, item := range items {
		outcome := o.processItem(ctx, i, item)
		summary.Items = append(summary.Items, outcome)
		ledger.Append(item.Title, outcome.Insight.Opportunity.BullScore, outcome.Insight.Risk.BearScore)

		if err := o.sleep(ctx, o.delay); err != nil {
			logger.Warn(ctx, "Batch interrupted", "processed", len(summary.Items), "error", err)
			return summary, err
		}
	}

	summary.Report = o.reporter.Publish(ctx, ledger)

	stored := 0
	for _, it := range summary.Items {
		if it.Stored {
			stored++
		}
	}
	logger.Info(ctx, "Batch completed",
		"items", len(summary.Items),
		"stored", stored,
		"report", summary.Report != nil,
	)

	return summary, nil
}

func (o *Orchestrator) processItem(ctx context.Context, index int, item types.NewsItem) types.ItemOutcome {
	timer := logger.StartOperation(ctx, "process_item", "index", index, "title", item.Title)
	ctx = timer.GetContext()

	insight := o.synth.Synthesize(ctx, item)
	outcome := types.ItemOutcome{Insight: insight}

	record := types.NewInsightRecord(logger.RunID(ctx), insight, o.language, o.now())
	if err := o.store.Save(ctx, record); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist insight", err,
			"store", o.store.Name(),
			"title", item.Title,
		)
		outcome.StoreErr = err.Error()
	} else {
		outcome.Stored = true
	}

	timer.End("sentiment", string(insight.Sentiment), "stored", outcome.Stored)
	return outcome
}
