package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"llm-news-desk/internal/store"
)

func defaultConfig(t *testing.T) *store.Config {
	t.Helper()
	cfg := &store.Config{}
	cfg.ApplyDefaults()
	cfg.Persistence.JSONL.Dir = t.TempDir()
	cfg.Persistence.SQLite.Path = filepath.Join(t.TempDir(), "insights.db")
	return cfg
}

func TestNewDefaultsToJSONL(t *testing.T) {
	stores, err := New(context.Background(), defaultConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer stores.Close()

	assert.Equal(t, stores.Name(), "JSONL")
	stores.Compact(context.Background(), time.Now())
}

func TestNewFansOut(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Persistence.Backends = []string{"JSONL", "SQLITE"}

	stores, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer stores.Close()

	assert.Equal(t, stores.Name(), "JSONL+SQLITE")
	if err := stores.Save(context.Background(), sampleRecord("a", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Persistence.Backends = []string{"NOTION"}
	cfg.Persistence.Notion.APIKeyEnv = "TEST_NEWSDESK_NOTION_UNSET"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error without Notion key")
	}

	cfg.Persistence.Backends = []string{"POSTGRES"}
	cfg.Persistence.Postgres.DSNEnv = "TEST_NEWSDESK_DSN_UNSET"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected error without DSN")
	}
}
