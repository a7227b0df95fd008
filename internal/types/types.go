package types

import (
	"fmt"
	"strings"
	"time"
)

// NewsItem is one entry handed over by a feed source. It is never mutated.
type NewsItem struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Link   string `json:"link"`
	Source string `json:"source,omitempty"`
}

// Opportunity is the optimist analyzer's perspective on an item.
type Opportunity struct {
	Summary     string   `json:"summary"`
	Opportunity string   `json:"opportunity"`
	BullScore   int      `json:"bull_score"`
	Tags        []string `json:"tags"`
}

// Risk is the skeptic analyzer's perspective on an item.
type Risk struct {
	RiskPoint string `json:"risk_point"`
	BearScore int    `json:"bear_score"`
}

const (
	// DefaultScore replaces any missing or unusable score.
	DefaultScore = 5
	// FailedText marks a perspective that could not be produced.
	FailedText = "analysis failed"
)

// DefaultOpportunity is substituted when the optimist output is unusable.
func DefaultOpportunity() Opportunity {
	return Opportunity{
		Summary:     FailedText,
		Opportunity: "-",
		BullScore:   DefaultScore,
		Tags:        []string{},
	}
}

// DefaultRisk is substituted when the skeptic output is unusable.
func DefaultRisk() Risk {
	return Risk{
		RiskPoint: FailedText,
		BearScore: DefaultScore,
	}
}

// Sentiment is the composite label derived from the bull/bear difference.
type Sentiment string

const (
	Bullish Sentiment = "BULLISH"
	Bearish Sentiment = "BEARISH"
	Neutral Sentiment = "NEUTRAL"
)

var sentimentLabels = map[string]map[Sentiment]string{
	"english":  {Bullish: "Bullish", Bearish: "Bearish", Neutral: "Neutral"},
	"japanese": {Bullish: "強気", Bearish: "弱気", Neutral: "中立"},
}

// Label returns the display label of s in the given output language.
// Unknown languages fall back to English.
func (s Sentiment) Label(language string) string {
	labels, ok := sentimentLabels[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		labels = sentimentLabels["english"]
	}
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Insight is one news item merged with both perspectives.
type Insight struct {
	Item        NewsItem    `json:"item"`
	Opportunity Opportunity `json:"opportunity"`
	Risk        Risk        `json:"risk"`
	ScoreDiff   int         `json:"score_diff"`
	Sentiment   Sentiment   `json:"sentiment"`
}

// InsightRecord is the persisted shape of an Insight.
type InsightRecord struct {
	RunID       string    `json:"run_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Sentiment   string    `json:"sentiment"`
	Tags        []string  `json:"tags"`
	Summary     string    `json:"summary"`
	Opportunity string    `json:"opportunity"`
	RiskPoint   string    `json:"risk_point"`
	BullScore   int       `json:"bull_score"`
	BearScore   int       `json:"bear_score"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// NewInsightRecord flattens an insight. recordedAt is the persistence time,
// not the article's publish time.
func NewInsightRecord(runID string, in Insight, language string, recordedAt time.Time) InsightRecord {
	tags := make([]string, len(in.Opportunity.Tags))
	copy(tags, in.Opportunity.Tags)
	return InsightRecord{
		RunID:       runID,
		Title:       in.Item.Title,
		URL:         in.Item.Link,
		Sentiment:   in.Sentiment.Label(language),
		Tags:        tags,
		Summary:     in.Opportunity.Summary,
		Opportunity: in.Opportunity.Opportunity,
		RiskPoint:   in.Risk.RiskPoint,
		BullScore:   in.Opportunity.BullScore,
		BearScore:   in.Risk.BearScore,
		RecordedAt:  recordedAt,
	}
}

// LedgerEntry is the lightweight per-item score summary kept for the report.
type LedgerEntry struct {
	Title     string `json:"title"`
	BullScore int    `json:"bull_score"`
	BearScore int    `json:"bear_score"`
}

// Line renders the entry as it is shown to the editor.
func (e LedgerEntry) Line() string {
	return fmt.Sprintf("- %s (bull:%d vs bear:%d)\n", e.Title, e.BullScore, e.BearScore)
}

// Report is the narrative produced once per run.
type Report struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
	Delivered   bool      `json:"delivered"`
}

// ItemOutcome records what happened to one item of a run.
type ItemOutcome struct {
	Insight  Insight `json:"insight"`
	Stored   bool    `json:"stored"`
	StoreErr string  `json:"store_error,omitempty"`
}

// RunSummary describes one pipeline run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Items     []ItemOutcome `json:"items"`
	Report    *Report       `json:"report,omitempty"`
}
