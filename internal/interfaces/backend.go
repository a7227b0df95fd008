package interfaces

import (
	"context"
)

// GenerateRequest carries the per-role settings of one model call.
type GenerateRequest struct {
	System      string
	Prompt      string
	JSON        bool // ask the backend for a JSON-only response
	MaxTokens   int
	Temperature float64
}

// Backend produces free-form text from a prompt.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
