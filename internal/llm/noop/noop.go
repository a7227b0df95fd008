package noop

import (
	"context"
	"errors"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
)

// ErrNoBackend is returned for every call so callers fall back to defaults.
var ErrNoBackend = errors.New("no LLM backend configured")

// NoopBackend is used when a role has no provider or no credentials.
type NoopBackend struct{}

var _ interfaces.Backend = NoopBackend{}

func NewNoopBackend() NoopBackend {
	return NoopBackend{}
}

func (NoopBackend) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	logger.Debug(ctx, "Noop backend called - returning no output")
	return "", ErrNoBackend
}
