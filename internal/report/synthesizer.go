package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/store"
	"llm-news-desk/internal/types"
)

const editorSystem = "You are the chief strategist of an investment fund."

// Synthesizer asks the editor model for a morning briefing over a run's
// ledger and delivers it to the notifier.
type Synthesizer struct {
	editor      interfaces.Backend
	notifier    interfaces.Notifier
	language    string
	databaseURL string
	maxTokens   int
	temperature float64
	now         func() time.Time
}

var _ interfaces.Reporter = (*Synthesizer)(nil)

type Option func(*Synthesizer)

func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

func New(cfg *store.Config, editor interfaces.Backend, notifier interfaces.Notifier, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		editor:      editor,
		notifier:    notifier,
		language:    cfg.Language,
		databaseURL: cfg.Persistence.Notion.DatabaseURL,
		maxTokens:   cfg.LLM.Editor.MaxTokens,
		temperature: cfg.LLM.Editor.Temperature,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish returns nil when the ledger is empty or the editor fails. A
// delivery failure still returns the report with Delivered unset.
func (s *Synthesizer) Publish(ctx context.Context, ledger interfaces.Ledger) *types.Report {
	if ledger.Len() == 0 {
		logger.Info(ctx, "Ledger is empty, skipping report")
		return nil
	}

	timer := logger.StartOperation(ctx, "publish_report", "entries", ledger.Len())
	ctx = timer.GetContext()

	text, err := s.editor.Generate(ctx, interfaces.GenerateRequest{
		System:      editorSystem,
		Prompt:      s.buildPrompt(ledger.Render()),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		timer.EndWithError(err)
		logger.ErrorWithErr(ctx, "Report generation failed", err)
		return nil
	}

	report := &types.Report{Text: text, GeneratedAt: s.now()}

	switch err := s.notifier.Send(ctx, s.Frame(report)); {
	case errors.Is(err, interfaces.ErrNoChannel):
		logger.Info(ctx, "No notification channel configured, report not delivered", "chars", len(text))
	case err != nil:
		logger.ErrorWithErr(ctx, "Report delivery failed", err)
	default:
		report.Delivered = true
		logger.Info(ctx, "Report delivered", "chars", len(text))
	}

	timer.End("delivered", report.Delivered)
	return report
}

func (s *Synthesizer) buildPrompt(news string) string {
	language := s.language
	if strings.TrimSpace(language) == "" {
		language = store.DefaultLanguage
	}
	return fmt.Sprintf(`Write a morning summary report for investors from today's list of important news.

News list:
%s
Instructions:
- Write in %s.
- Open with today's overall market mood (sentiment) in one phrase.
- Pick the single most notable item and analyze it in depth.
- Close with an action suggestion for investors.
- Keep it to about 600 characters, formatted to read well in a chat message.`, news, language)
}

// Frame wraps the report text in the delivered message.
func (s *Synthesizer) Frame(r *types.Report) string {
	return fmt.Sprintf("**📊 Daily Investment Morning Briefing**\n%s\n\n%s\n\nDetails: [Open the insight database](%s)",
		r.GeneratedAt.Format("2006-01-02"), r.Text, s.databaseURL)
}
