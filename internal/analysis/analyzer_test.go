package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestOptimistBuildsRequest(t *testing.T) {
	backend := &fakeBackend{text: `{"summary":"s"}`}
	a := NewOptimist(backend, "Japanese", WithMaxTokens(512), WithTemperature(0.4))

	gen := a.Analyze(context.Background(), "Acme raises $10M\nSeed round")

	assert.Equal(t, gen.OK(), true)
	assert.Equal(t, gen.Text, `{"summary":"s"}`)
	assert.Equal(t, a.Role(), RoleOptimist)
	if len(backend.requests) != 1 {
		t.Fatalf("expected exactly one backend call, got %d", len(backend.requests))
	}

	req := backend.requests[0]
	assert.Equal(t, req.JSON, false)
	assert.Equal(t, req.MaxTokens, 512)
	assert.Equal(t, req.Temperature, 0.4)
	if !strings.Contains(req.System, "growth") {
		t.Errorf("optimist framing missing from system prompt: %q", req.System)
	}
	for _, want := range []string{"Acme raises $10M", "bull_score", "Japanese"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
}

func TestSkepticRequestsJSON(t *testing.T) {
	backend := &fakeBackend{text: "{}"}
	a := NewSkeptic(backend, "")

	a.Analyze(context.Background(), "title\n")

	req := backend.requests[0]
	assert.Equal(t, req.JSON, true)
	assert.Equal(t, a.Role(), RoleSkeptic)
	if !strings.Contains(req.System, "risk manager") {
		t.Errorf("skeptic framing missing from system prompt: %q", req.System)
	}
	if !strings.Contains(req.Prompt, "bear_score") || !strings.Contains(req.Prompt, "English") {
		t.Errorf("unexpected prompt: %q", req.Prompt)
	}
}

func TestAnalyzeCapturesBackendError(t *testing.T) {
	boom := errors.New("rate limited")
	a := NewSkeptic(&fakeBackend{err: boom}, "English")

	gen := a.Analyze(context.Background(), "x")

	assert.Equal(t, gen.OK(), false)
	assert.Equal(t, gen.Text, "")
	if !errors.Is(gen.Err, boom) {
		t.Errorf("expected wrapped backend error, got %v", gen.Err)
	}
}
