package analysis

import (
	"context"

	"llm-news-desk/internal/interfaces"
)

type fakeBackend struct {
	text     string
	err      error
	requests []interfaces.GenerateRequest
}

func (f *fakeBackend) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.text, f.err
}
