package analysis

import (
	"context"

	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

// MaxTags is the number of tags kept on an Insight.
const MaxTags = 3

// Sentiment thresholds on bull minus bear.
const (
	BullishThreshold = 3
	BearishThreshold = -3
)

// Classify maps the two scores onto a composite sentiment.
func Classify(bull, bear int) types.Sentiment {
	diff := bull - bear
	switch {
	case diff >= BullishThreshold:
		return types.Bullish
	case diff <= BearishThreshold:
		return types.Bearish
	default:
		return types.Neutral
	}
}

// Synthesizer runs both analyzers over one item and merges the results.
type Synthesizer struct {
	optimist Analyzer
	skeptic  Analyzer
}

func NewSynthesizer(optimist, skeptic Analyzer) *Synthesizer {
	return &Synthesizer{optimist: optimist, skeptic: skeptic}
}

// Payload is the text both analyzers see for an item.
func Payload(item types.NewsItem) string {
	return item.Title + "\n" + item.Body
}

// Synthesize never fails: a degraded perspective is replaced by defaults and
// the Insight is still produced.
func (s *Synthesizer) Synthesize(ctx context.Context, item types.NewsItem) types.Insight {
	payload := Payload(item)

	bullGen := s.optimist.Analyze(ctx, payload)
	bearGen := s.skeptic.Analyze(ctx, payload)

	opp, oppOutcome := NormalizeOpportunity(bullGen)
	risk, riskOutcome := NormalizeRisk(bearGen)

	reportOutcome(ctx, s.optimist.Role(), oppOutcome, bullGen, item)
	reportOutcome(ctx, s.skeptic.Role(), riskOutcome, bearGen, item)

	if len(opp.Tags) > MaxTags {
		opp.Tags = opp.Tags[:MaxTags]
	}

	insight := types.Insight{
		Item:        item,
		Opportunity: opp,
		Risk:        risk,
		ScoreDiff:   opp.BullScore - risk.BearScore,
		Sentiment:   Classify(opp.BullScore, risk.BearScore),
	}

	logger.Insight(ctx, item.Title, string(insight.Sentiment), opp.BullScore, risk.BearScore,
		"score_diff", insight.ScoreDiff,
		"tags", insight.Opportunity.Tags,
	)

	return insight
}

func reportOutcome(ctx context.Context, role Role, outcome Outcome, g Generation, item types.NewsItem) {
	if outcome == Parsed {
		return
	}
	fields := []any{"title", item.Title}
	if g.Err != nil {
		fields = append(fields, "error", g.Err)
	}
	logger.Degraded(ctx, string(role), string(outcome), fields...)
}
