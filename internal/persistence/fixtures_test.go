package persistence

import (
	"time"

	"llm-news-desk/internal/types"
)

func sampleRecord(title string, at time.Time) types.InsightRecord {
	return types.InsightRecord{
		RunID:       "run-1",
		Title:       title,
		URL:         "https://example.com/" + title,
		Sentiment:   "Bullish",
		Tags:        []string{"AI", "Funding"},
		Summary:     "Closed a Series B.",
		Opportunity: "Market share gains",
		RiskPoint:   "Burn rate",
		BullScore:   8,
		BearScore:   4,
		RecordedAt:  at,
	}
}
