package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}

	assert.Equal(t, cfg.Feed.Source, "RSS")
	assert.Equal(t, cfg.Feed.URL, DefaultFeedURL)
	assert.Equal(t, cfg.Pipeline.BatchSize, 5)
	assert.Equal(t, cfg.ItemDelay(), 15*time.Second)
	assert.Equal(t, cfg.LLM.Optimist.Provider, "GEMINI")
	assert.Equal(t, cfg.LLM.Skeptic.Provider, "GROQ")
	assert.Equal(t, cfg.LLM.Skeptic.Model, "llama3-70b-8192")
	assert.Equal(t, cfg.Persistence.Backends, []string{"JSONL"})
	assert.Equal(t, cfg.Notify.Username, "AI Investment CIO")
}

func TestLoadConfigNotionDefaultBackend(t *testing.T) {
	path := writeConfig(t, `
persistence:
  notion:
    database_id: abc123
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assert.Equal(t, cfg.Persistence.Backends, []string{"NOTION"})
	assert.Equal(t, cfg.Persistence.Notion.APIKeyEnv, "NOTION_API_KEY")
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
language: Japanese
feed:
  source: finnhub
llm:
  skeptic:
    provider: claude
    model: claude-haiku-4-5
    api_key_env: ANTHROPIC_API_KEY
pipeline:
  batch_size: 3
  item_delay_seconds: 2
persistence:
  backends: [jsonl, postgres]
tracing:
  enabled: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assert.Equal(t, cfg.Language, "Japanese")
	assert.Equal(t, cfg.Feed.Source, "FINNHUB")
	assert.Equal(t, cfg.LLM.Skeptic.Provider, "CLAUDE")
	assert.Equal(t, cfg.LLM.Skeptic.MaxTokens, 1024)
	assert.Equal(t, cfg.Pipeline.BatchSize, 3)
	assert.Equal(t, cfg.ItemDelay(), 2*time.Second)
	assert.Equal(t, cfg.Persistence.Backends, []string{"JSONL", "POSTGRES"})
	assert.Equal(t, cfg.Tracing.Enabled, true)
}

func TestLoadConfigZeroDelayIsKept(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "pipeline:\n  item_delay_seconds: 0\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assert.Equal(t, cfg.ItemDelay(), time.Duration(0))

	cfg, err = LoadConfig(writeConfig(t, "pipeline:\n  batch_size: 2\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assert.Equal(t, cfg.ItemDelay(), 15*time.Second)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown provider", "llm:\n  optimist:\n    provider: bard\n", "not supported"},
		{"unknown source", "feed:\n  source: twitter\n", "feed.source"},
		{"negative batch", "pipeline:\n  batch_size: -1\n", "batch_size"},
		{"negative delay", "pipeline:\n  item_delay_seconds: -2\n", "item_delay_seconds"},
		{"notion without database", "persistence:\n  backends: [notion]\n", "database_id"},
		{"unknown backend", "persistence:\n  backends: [mongo]\n", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.want)) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestRoleAPIKey(t *testing.T) {
	t.Setenv("TEST_NEWSDESK_KEY", "  secret ")
	role := RoleLLM{APIKeyEnv: "TEST_NEWSDESK_KEY"}
	assert.Equal(t, role.APIKey(), "secret")
	assert.Equal(t, RoleLLM{}.APIKey(), "")
}
