package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"llm-news-desk/internal/types"
)

// Outcome tells how much of a generation survived normalization.
type Outcome string

const (
	// Parsed means every field was present and valid.
	Parsed Outcome = "parsed"
	// Partial means the object parsed but some fields were defaulted or clamped.
	Partial Outcome = "partial"
	// Defaulted means the whole perspective was replaced by its default.
	Defaulted Outcome = "defaulted"
)

const (
	MinScore = 1
	MaxScore = 10
)

// StripFences removes markdown code fences around a JSON object. When prose
// surrounds the object, only the span from the first '{' to the last '}' is
// kept.
func StripFences(raw string) string {
	s := stripMarkers(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func stripMarkers(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeObject accepts only a JSON object. A payload that is itself valid
// JSON of another kind (array, string, number) is rejected even when it
// contains an object; prose around an object is cut away.
func decodeObject(g Generation) (map[string]any, bool) {
	if !g.OK() {
		return nil, false
	}
	bare := stripMarkers(g.Text)
	if bare == "" {
		return nil, false
	}

	var whole any
	if err := json.Unmarshal([]byte(bare), &whole); err == nil {
		obj, ok := whole.(map[string]any)
		return obj, ok
	}
	if bare[0] == '[' {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(StripFences(bare)), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// NormalizeOpportunity coerces an optimist generation into an Opportunity.
func NormalizeOpportunity(g Generation) (types.Opportunity, Outcome) {
	obj, ok := decodeObject(g)
	if !ok {
		return types.DefaultOpportunity(), Defaulted
	}

	clean := true
	summary, ok := stringField(obj, "summary")
	clean = clean && ok
	opportunity, ok := stringField(obj, "opportunity")
	clean = clean && ok
	bull, ok := scoreField(obj, "bull_score")
	clean = clean && ok
	tags, ok := tagsField(obj, "tags")
	clean = clean && ok

	out := types.Opportunity{
		Summary:     summary,
		Opportunity: opportunity,
		BullScore:   bull,
		Tags:        tags,
	}
	if clean {
		return out, Parsed
	}
	return out, Partial
}

// NormalizeRisk coerces a skeptic generation into a Risk.
func NormalizeRisk(g Generation) (types.Risk, Outcome) {
	obj, ok := decodeObject(g)
	if !ok {
		return types.DefaultRisk(), Defaulted
	}

	point, pointOK := stringField(obj, "risk_point")
	bear, bearOK := scoreField(obj, "bear_score")

	out := types.Risk{RiskPoint: point, BearScore: bear}
	if pointOK && bearOK {
		return out, Parsed
	}
	return out, Partial
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok {
		return "", false
	}
	return s, true
}

// scoreField accepts integers, floats (rounded) and numeric strings.
// Out-of-range values are clamped and reported as not clean.
func scoreField(obj map[string]any, key string) (int, bool) {
	var f float64
	switch v := obj[key].(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return types.DefaultScore, false
		}
		f = parsed
	default:
		return types.DefaultScore, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return types.DefaultScore, false
	}

	f = math.Round(f)
	switch {
	case f < MinScore:
		return MinScore, false
	case f > MaxScore:
		return MaxScore, false
	}
	return int(f), true
}

func tagsField(obj map[string]any, key string) ([]string, bool) {
	raw, ok := obj[key].([]any)
	if !ok {
		return []string{}, false
	}
	tags := make([]string, 0, len(raw))
	clean := true
	for _, t := range raw {
		switch v := t.(type) {
		case string:
			tags = append(tags, v)
		case nil:
			clean = false
		default:
			tags = append(tags, fmt.Sprint(v))
			clean = false
		}
	}
	return tags, clean
}
