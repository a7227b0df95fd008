package feed

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Enricher decorates a FeedSource and fills empty bodies with the article's
// paragraphs scraped from its link. Only the first limit items are kept and
// scraped; a limit of zero or less keeps everything.
type Enricher struct {
	source  interfaces.FeedSource
	timeout time.Duration
	limit   int
}

var _ interfaces.FeedSource = (*Enricher)(nil)

func NewEnricher(source interfaces.FeedSource, timeout time.Duration, limit int) *Enricher {
	return &Enricher{source: source, timeout: timeout, limit: limit}
}

func (e *Enricher) Name() string {
	return e.source.Name()
}

func (e *Enricher) Fetch(ctx context.Context) ([]types.NewsItem, error) {
	items, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if e.limit > 0 && len(items) > e.limit {
		items = items[:e.limit]
	}

	enriched := make([]types.NewsItem, len(items))
	copy(enriched, items)
	for i := range enriched {
		if strings.TrimSpace(enriched[i].Body) != "" {
			continue
		}
		if content := e.fetchArticleContent(ctx, enriched[i].Link); content != "" {
			enriched[i].Body = content
		}
	}
	return enriched, nil
}

// fetchArticleContent returns the article paragraphs or "" on any failure.
func (e *Enricher) fetchArticleContent(ctx context.Context, articleURL string) string {
	c := colly.NewCollector(colly.StdlibContext(ctx))
	c.SetRequestTimeout(e.timeout)

	var paragraphs []string
	seen := false

	c.OnHTML("article, div.article-body, div.article-content, div.entry-content", func(el *colly.HTMLElement) {
		if seen {
			return
		}
		seen = true
		el.ForEach("p", func(_ int, p *colly.HTMLElement) {
			text := strings.TrimSpace(p.Text)
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	if err := c.Visit(articleURL); err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article content", err, "url", articleURL)
		return ""
	}

	return strings.Join(paragraphs, "\n\n")
}
