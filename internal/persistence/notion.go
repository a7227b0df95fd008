package persistence

import (
	"context"
	"fmt"
	"time"

	"llm-news-desk/internal/api"
	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

// NotionBaseURL is the public Notion API endpoint.
const NotionBaseURL = "https://api.notion.com"

// Notion creates one page per insight in a Notion database.
type Notion struct {
	client     *api.Client
	databaseID string
	labels     sectionLabels
}

var _ interfaces.InsightStore = (*Notion)(nil)

type sectionLabels struct {
	summary, bull, bear string
}

var notionLabels = map[string]sectionLabels{
	"japanese": {summary: "要約", bull: "🚀 強気視点", bear: "🛡️ 慎重視点"},
}

var defaultNotionLabels = sectionLabels{summary: "Summary", bull: "🚀 Bull view", bear: "🛡️ Bear view"}

// NewNotion builds the store. baseURL is NotionBaseURL outside tests.
func NewNotion(baseURL, apiKey, databaseID, language string, timeout time.Duration) *Notion {
	labels, ok := notionLabels[normalizeLanguage(language)]
	if !ok {
		labels = defaultNotionLabels
	}
	return &Notion{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithHeaders(api.NotionHeaders(apiKey)),
			api.WithTimeout(timeout),
			api.WithLogging(true),
		),
		databaseID: databaseID,
		labels:     labels,
	}
}

func (n *Notion) Name() string {
	return "NOTION"
}

func (n *Notion) Save(ctx context.Context, r types.InsightRecord) error {
	resp, err := n.client.PostJSON(ctx, "/v1/pages", n.page(r))
	if err != nil {
		return fmt.Errorf("create notion page: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := resp.ParseJSON(&created); err == nil {
		logger.Debug(ctx, "Notion page created", "page_id", created.ID, "title", r.Title)
	}
	return nil
}

type object = map[string]any

func richText(content string) []object {
	return []object{{"text": object{"content": content}}}
}

func block(kind string, body object) object {
	return object{"object": "block", "type": kind, kind: body}
}

func paragraph(content string) object {
	return block("paragraph", object{"rich_text": richText(content)})
}

func (n *Notion) page(r types.InsightRecord) object {
	tags := make([]object, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, object{"name": t})
	}

	column := func(heading, text string, score int) object {
		return block("column", object{"children": []object{
			block("heading_3", object{"rich_text": richText(heading)}),
			paragraph(text),
			paragraph(fmt.Sprintf("Score: %d", score)),
		}})
	}

	return object{
		"parent": object{"database_id": n.databaseID},
		"properties": object{
			"Name":          object{"title": richText(r.Title)},
			"URL":           object{"url": r.URL},
			"Sentiment":     object{"select": object{"name": r.Sentiment}},
			"Tags":          object{"multi_select": tags},
			"PublishedDate": object{"date": object{"start": r.RecordedAt.Format(time.RFC3339)}},
		},
		"children": []object{
			block("callout", object{
				"rich_text": richText(fmt.Sprintf("%s: %s", n.labels.summary, r.Summary)),
				"icon":      object{"emoji": "📰"},
			}),
			block("column_list", object{"children": []object{
				column(n.labels.bull, r.Opportunity, r.BullScore),
				column(n.labels.bear, r.RiskPoint, r.BearScore),
			}}),
		},
	}
}
