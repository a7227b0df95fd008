package analysis

import (
	"context"
	"fmt"
	"strings"

	"llm-news-desk/internal/interfaces"
)

// Role identifies the fixed perspective of an analyzer.
type Role string

const (
	RoleOptimist Role = "optimist"
	RoleSkeptic  Role = "skeptic"
)

// Generation is the outcome of one analyzer call. A transport or model
// failure is carried in Err instead of being returned.
type Generation struct {
	Text string
	Err  error
}

// OK reports whether the backend produced text.
func (g Generation) OK() bool {
	return g.Err == nil
}

// Analyzer turns a news payload into raw structured text from one perspective.
type Analyzer interface {
	Role() Role
	Analyze(ctx context.Context, text string) Generation
}

// Option tunes the request an analyzer sends to its backend.
type Option func(*settings)

type settings struct {
	maxTokens   int
	temperature float64
}

func WithMaxTokens(n int) Option {
	return func(s *settings) { s.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(s *settings) { s.temperature = t }
}

type roleAnalyzer struct {
	role     Role
	backend  interfaces.Backend
	system   string
	schema   string
	json     bool
	language string
	settings settings
}

const optimistSystem = "You are a growth-stock investor. Find the investment opportunity in the news you are given and analyze it."

const optimistSchema = `{
  "summary": "three-line summary",
  "opportunity": "the revenue or growth opportunity",
  "bull_score": integer from 1 to 10,
  "tags": ["tag A", "tag B"]
}`

const skepticSystem = "You are a skeptical risk manager. Analyze the news critically and look for what could go wrong."

const skepticSchema = `{
  "risk_point": "the single biggest risk factor",
  "bear_score": integer from 1 to 10
}`

// NewOptimist builds the opportunity-seeking analyzer.
func NewOptimist(backend interfaces.Backend, language string, opts ...Option) Analyzer {
	return newRoleAnalyzer(RoleOptimist, backend, optimistSystem, optimistSchema, false, language, opts)
}

// NewSkeptic builds the risk-focused analyzer. It always requests a JSON-only
// response.
func NewSkeptic(backend interfaces.Backend, language string, opts ...Option) Analyzer {
	return newRoleAnalyzer(RoleSkeptic, backend, skepticSystem, skepticSchema, true, language, opts)
}

func newRoleAnalyzer(role Role, backend interfaces.Backend, system, schema string, json bool, language string, opts []Option) *roleAnalyzer {
	a := &roleAnalyzer{
		role:     role,
		backend:  backend,
		system:   system,
		schema:   schema,
		json:     json,
		language: language,
	}
	for _, opt := range opts {
		opt(&a.settings)
	}
	return a
}

func (a *roleAnalyzer) Role() Role {
	return a.role
}

func (a *roleAnalyzer) Analyze(ctx context.Context, text string) Generation {
	out, err := a.backend.Generate(ctx, interfaces.GenerateRequest{
		System:      a.system,
		Prompt:      a.buildPrompt(text),
		JSON:        a.json,
		MaxTokens:   a.settings.maxTokens,
		Temperature: a.settings.temperature,
	})
	if err != nil {
		return Generation{Err: fmt.Errorf("%s generation: %w", a.role, err)}
	}
	return Generation{Text: out}
}

func (a *roleAnalyzer) buildPrompt(text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write every text value in %s.\n\n", outputLanguage(a.language))
	fmt.Fprintf(&sb, "News:\n%s\n\n", text)
	sb.WriteString("Respond ONLY with a JSON object in this format:\n")
	sb.WriteString(a.schema)
	return sb.String()
}

func outputLanguage(language string) string {
	if strings.TrimSpace(language) == "" {
		return "English"
	}
	return language
}
