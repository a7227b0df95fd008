package llm

import (
	"context"
	"fmt"
	"sync"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/llm/claude"
	"llm-news-desk/internal/llm/llmobs"
	"llm-news-desk/internal/llm/noop"
	"llm-news-desk/internal/llm/openai"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/store"
)

type clientKey struct {
	provider string
	baseURL  string
	apiKey   string
}

// Registry hands out backends per role. SDK clients are created once per
// (provider, endpoint, key) and shared by every role that uses them.
type Registry struct {
	mu     sync.Mutex
	openai map[clientKey]*openai.Client
	claude map[clientKey]*claude.Client
}

func NewRegistry() *Registry {
	return &Registry{
		openai: make(map[clientKey]*openai.Client),
		claude: make(map[clientKey]*claude.Client),
	}
}

// For returns the observable backend of a role. A role with no credentials
// gets the noop backend so its perspective degrades to defaults.
func (r *Registry) For(ctx context.Context, name string, role store.RoleLLM) (interfaces.Backend, error) {
	backend, err := r.build(ctx, name, role)
	if err != nil {
		return nil, err
	}
	return llmobs.Wrap(backend, name, role.Provider, role.Model), nil
}

func (r *Registry) build(ctx context.Context, name string, role store.RoleLLM) (interfaces.Backend, error) {
	if role.Provider == "NOOP" {
		return noop.NewNoopBackend(), nil
	}

	apiKey := role.APIKey()
	if apiKey == "" {
		logger.Warn(ctx, "No API key for role, using noop backend",
			"role", name,
			"provider", role.Provider,
			"api_key_env", role.APIKeyEnv,
		)
		return noop.NewNoopBackend(), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch role.Provider {
	case "OPENAI", "GROQ", "GEMINI":
		baseURL := role.BaseURL
		if baseURL == "" {
			baseURL = openai.BaseURLFor(role.Provider)
		}
		key := clientKey{provider: role.Provider, baseURL: baseURL, apiKey: apiKey}
		client, ok := r.openai[key]
		if !ok {
			client = openai.NewClient(apiKey, baseURL)
			r.openai[key] = client
		}
		return openai.NewBackend(client, role.Model), nil
	case "CLAUDE":
		key := clientKey{provider: role.Provider, baseURL: role.BaseURL, apiKey: apiKey}
		client, ok := r.claude[key]
		if !ok {
			client = claude.NewClient(apiKey, role.BaseURL)
			r.claude[key] = client
		}
		return claude.NewBackend(client, role.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q for role %s", role.Provider, name)
	}
}

// Clients reports how many distinct SDK clients were created.
func (r *Registry) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.openai) + len(r.claude)
}
