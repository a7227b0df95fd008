package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

// RSS reads items from an RSS or Atom feed.
type RSS struct {
	url    string
	client *http.Client
}

var _ interfaces.FeedSource = (*RSS)(nil)

func NewRSS(url string, timeout time.Duration) *RSS {
	return &RSS{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (r *RSS) Name() string {
	return "RSS"
}

// Fetch returns the feed entries in feed order. Entries without a title or a
// link are skipped.
func (r *RSS) Fetch(ctx context.Context) ([]types.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status: %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]types.NewsItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			logger.Debug(ctx, "Skipping feed entry without title or link", "title", title)
			continue
		}

		body := entry.Description
		if body == "" {
			body = entry.Content
		}

		items = append(items, types.NewsItem{
			Title:  title,
			Body:   StripHTML(body),
			Link:   link,
			Source: parsed.Title,
		})
	}

	logger.Info(ctx, "Feed fetched", "url", r.url, "entries", len(parsed.Items), "items", len(items))
	return items, nil
}

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
