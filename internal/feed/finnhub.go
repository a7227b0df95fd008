package feed

import (
	"context"
	"fmt"
	"strings"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

// FinnHub reads market news by category from the FinnHub API.
type FinnHub struct {
	client   *finnhub.DefaultApiService
	category string
}

var _ interfaces.FeedSource = (*FinnHub)(nil)

// NewFinnHub builds the client. serverURL overrides the API endpoint and is
// empty in production.
func NewFinnHub(apiKey, category, serverURL string) *FinnHub {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if serverURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: serverURL}}
	}
	return &FinnHub{
		client:   finnhub.NewAPIClient(cfg).DefaultApi,
		category: category,
	}
}

func (f *FinnHub) Name() string {
	return "FinnHub"
}

func (f *FinnHub) Fetch(ctx context.Context) ([]types.NewsItem, error) {
	res, _, err := f.client.MarketNews(ctx).Category(f.category).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub market news: %w", err)
	}

	items := make([]types.NewsItem, 0, len(res))
	for _, news := range res {
		var item types.NewsItem

		if news.Headline != nil {
			item.Title = strings.TrimSpace(*news.Headline)
		}
		if news.Summary != nil {
			item.Body = strings.TrimSpace(*news.Summary)
		}
		if news.Url != nil {
			item.Link = *news.Url
		}
		if news.Source != nil {
			item.Source = *news.Source
		}

		if item.Title == "" || item.Link == "" {
			continue
		}
		items = append(items, item)
	}

	logger.Info(ctx, "FinnHub news fetched", "category", f.category, "items", len(items))
	return items, nil
}
