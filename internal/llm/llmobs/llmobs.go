package llmobs

import (
	"context"
	"time"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/trace"
)

// observableBackend wraps a Backend with observability (logging & tracing)
type observableBackend struct {
	backend  interfaces.Backend
	role     string
	provider string
	model    string
}

// Compile-time interface check
var _ interfaces.Backend = (*observableBackend)(nil)

// Wrap wraps a backend with observability middleware. role, provider and
// model only label the emitted logs and spans.
func Wrap(backend interfaces.Backend, role, provider, model string) interfaces.Backend {
	return &observableBackend{
		backend:  backend,
		role:     role,
		provider: provider,
		model:    model,
	}
}

// Generate calls the underlying backend with observability
func (ob *observableBackend) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	ctx, span := trace.StartRoleSpan(ctx, ob.role, ob.provider, ob.model)
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting generation",
		"role", ob.role,
		"provider", ob.provider,
		"model", ob.model,
		"json", req.JSON,
		"prompt_chars", len(req.Prompt),
	)

	start := time.Now()
	text, err := ob.backend.Generate(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Generation failed", err,
			"role", ob.role,
			"provider", ob.provider,
			"model", ob.model,
		)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Generation received",
		"role", ob.role,
		"provider", ob.provider,
		"model", ob.model,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return text, nil
}
