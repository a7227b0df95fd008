package persistence

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestNotionSaveBuildsPage(t *testing.T) {
	var page map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/v1/pages")
		assert.Equal(t, r.Header.Get("Authorization"), "Bearer notion-key")
		assert.Equal(t, r.Header.Get("Notion-Version"), "2022-06-28")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &page); err != nil {
			t.Errorf("invalid JSON body: %v", err)
		}
		_, _ = io.WriteString(w, `{"object":"page","id":"p1"}`)
	}))
	defer srv.Close()

	at := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	n := NewNotion(srv.URL, "notion-key", "db-1", "English", time.Second)
	if err := n.Save(context.Background(), sampleRecord("acme", at)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	parent := page["parent"].(map[string]any)
	assert.Equal(t, parent["database_id"], "db-1")

	props := page["properties"].(map[string]any)
	assert.Equal(t, props["URL"].(map[string]any)["url"], "https://example.com/acme")
	assert.Equal(t, props["Sentiment"].(map[string]any)["select"].(map[string]any)["name"], "Bullish")
	assert.Equal(t, len(props["Tags"].(map[string]any)["multi_select"].([]any)), 2)
	assert.Equal(t, props["PublishedDate"].(map[string]any)["date"].(map[string]any)["start"], "2026-03-02T07:00:00Z")

	children := page["children"].([]any)
	assert.Equal(t, len(children), 2)
	assert.Equal(t, children[0].(map[string]any)["type"], "callout")
	assert.Equal(t, children[1].(map[string]any)["type"], "column_list")
}

func TestNotionSaveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"unauthorized"}`)
	}))
	defer srv.Close()

	n := NewNotion(srv.URL, "bad", "db-1", "English", time.Second)
	if err := n.Save(context.Background(), sampleRecord("acme", time.Now())); err == nil {
		t.Fatal("expected error")
	}
}

func TestNotionJapaneseLabels(t *testing.T) {
	n := NewNotion("http://unused", "k", "db", "Japanese", time.Second)
	assert.Equal(t, n.labels.summary, "要約")

	n = NewNotion("http://unused", "k", "db", "French", time.Second)
	assert.Equal(t, n.labels, defaultNotionLabels)
}
