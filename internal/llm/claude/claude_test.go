package claude

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"llm-news-desk/internal/interfaces"
)

func TestGenerateUsesMessagesAPI(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"text","text":"Markets are calm."}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	defer srv.Close()

	backend := NewBackend(NewClient("k", srv.URL+"/"), "claude-haiku-4-5")
	text, err := backend.Generate(context.Background(), interfaces.GenerateRequest{
		System: "You are a strategist.",
		Prompt: "Summarize",
		JSON:   true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	assert.Equal(t, text, "Markets are calm.")
	assert.Equal(t, got["model"], "claude-haiku-4-5")
	assert.Equal(t, got["max_tokens"], float64(defaultMaxTokens))

	system, _ := got["system"].([]any)
	if len(system) != 1 {
		t.Fatalf("expected one system block, got %v", got["system"])
	}
	block, _ := system[0].(map[string]any)
	if !strings.Contains(block["text"].(string), "JSON") {
		t.Errorf("json mode should be requested in the system prompt, got %q", block["text"])
	}
}
