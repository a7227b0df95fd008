package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/llm/noop"
	"llm-news-desk/internal/store"
)

func TestRegistrySharesClients(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "g")
	t.Setenv("TEST_GROQ_KEY", "q")

	r := NewRegistry()
	ctx := context.Background()

	gemini := store.RoleLLM{Provider: "GEMINI", Model: "gemini-2.5-flash", APIKeyEnv: "TEST_GEMINI_KEY"}
	groq := store.RoleLLM{Provider: "GROQ", Model: "llama3-70b-8192", APIKeyEnv: "TEST_GROQ_KEY"}

	for _, tc := range []struct {
		name string
		role store.RoleLLM
	}{
		{"optimist", gemini},
		{"skeptic", groq},
		{"editor", gemini},
	} {
		if _, err := r.For(ctx, tc.name, tc.role); err != nil {
			t.Fatalf("For(%s): %v", tc.name, err)
		}
	}

	assert.Equal(t, r.Clients(), 2)
}

func TestRegistryMissingKeyDegradesToNoop(t *testing.T) {
	r := NewRegistry()
	backend, err := r.For(context.Background(), "skeptic", store.RoleLLM{
		Provider:  "GROQ",
		Model:     "llama3-70b-8192",
		APIKeyEnv: "TEST_NEWSDESK_UNSET_KEY",
	})
	if err != nil {
		t.Fatalf("For: %v", err)
	}

	_, err = backend.Generate(context.Background(), interfaces.GenerateRequest{Prompt: "p"})
	if !errors.Is(err, noop.ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
	assert.Equal(t, r.Clients(), 0)
}

func TestRegistryRejectsUnknownProvider(t *testing.T) {
	t.Setenv("TEST_NEWSDESK_KEY", "k")
	r := NewRegistry()
	_, err := r.For(context.Background(), "editor", store.RoleLLM{Provider: "BARD", Model: "x", APIKeyEnv: "TEST_NEWSDESK_KEY"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
