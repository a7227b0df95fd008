package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-playground/assert/v2"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/store"
)

func TestDiscordSend(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, http.MethodPost)
		assert.Equal(t, r.Header.Get("Content-Type"), "application/json")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL, "AI Investment CIO", time.Second)
	if err := d.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	assert.Equal(t, got.Username, "AI Investment CIO")
	assert.Equal(t, got.Content, "hello")
}

func TestDiscordSendTruncates(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	_ = NewDiscord(srv.URL, "", time.Second).Send(context.Background(), strings.Repeat("強", 2500))
	assert.Equal(t, utf8.RuneCountInString(got.Content), MaxContentLength)
}

func TestDiscordSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if err := NewDiscord(srv.URL, "", time.Second).Send(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, Truncate("short", 10), "short")
	assert.Equal(t, Truncate("abcdef", 4), "abc…")
}

func TestNewWithoutWebhookIsNoop(t *testing.T) {
	cfg := &store.Config{}
	cfg.ApplyDefaults()
	cfg.Notify.WebhookURLEnv = "TEST_NEWSDESK_WEBHOOK_UNSET"

	n := New(cfg)
	if _, ok := n.(noopNotifier); !ok {
		t.Fatalf("expected noop notifier, got %T", n)
	}
	if err := n.Send(context.Background(), "x"); !errors.Is(err, interfaces.ErrNoChannel) {
		t.Errorf("Send error = %v, want ErrNoChannel", err)
	}
}
