package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"llm-news-desk/internal/types"
)

type staticSource struct {
	items []types.NewsItem
	err   error
}

func (s *staticSource) Fetch(ctx context.Context) ([]types.NewsItem, error) { return s.items, s.err }
func (s *staticSource) Name() string                                        { return "static" }

func TestEnricherFillsEmptyBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><article>
			<p>The company announced a new data center in Ohio today.</p>
			<p>short</p>
			<p>Analysts expect the build-out to finish next year.</p>
		</article></body></html>`)
	}))
	defer srv.Close()

	src := &staticSource{items: []types.NewsItem{
		{Title: "has body", Body: "already here", Link: srv.URL + "/a"},
		{Title: "empty", Link: srv.URL + "/b"},
	}}

	items, err := NewEnricher(src, 5*time.Second, 0).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	assert.Equal(t, items[0].Body, "already here")
	assert.Equal(t, items[1].Body,
		"The company announced a new data center in Ohio today.\n\nAnalysts expect the build-out to finish next year.")
	assert.Equal(t, src.items[1].Body, "")
}

func TestEnricherPropagatesFetchError(t *testing.T) {
	_, err := NewEnricher(&staticSource{err: errors.New("down")}, time.Second, 5).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEnricherScrapesOnlyWithinLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body><article><p>Quarterly revenue beat every estimate.</p></article></body></html>`)
	}))
	defer srv.Close()

	var src staticSource
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		src.items = append(src.items, types.NewsItem{Title: title, Link: srv.URL + "/" + title})
	}

	items, err := NewEnricher(&src, 5*time.Second, 2).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	assert.Equal(t, len(items), 2)
	assert.Equal(t, items[1].Body, "Quarterly revenue beat every estimate.")
	assert.Equal(t, int(hits.Load()), 2)
}
