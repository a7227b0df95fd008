package feed

import (
	"fmt"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/store"
)

// New builds the configured feed source, wrapped in an Enricher when
// feed.enrich_empty_body is set. The Enricher is capped at the batch size so
// items the orchestrator drops are never scraped.
func New(cfg *store.Config) (interfaces.FeedSource, error) {
	var source interfaces.FeedSource
	switch cfg.Feed.Source {
	case "RSS":
		source = NewRSS(cfg.Feed.URL, cfg.FeedTimeout())
	case "FINNHUB":
		key := store.Secret(cfg.Feed.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%s is not set", cfg.Feed.APIKeyEnv)
		}
		source = NewFinnHub(key, cfg.Feed.FinnhubCategory, "")
	default:
		return nil, fmt.Errorf("unsupported feed source %q", cfg.Feed.Source)
	}

	if cfg.Feed.EnrichEmptyBody {
		source = NewEnricher(source, cfg.FeedTimeout(), cfg.Pipeline.BatchSize)
	}
	return source, nil
}
