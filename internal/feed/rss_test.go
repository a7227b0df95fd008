package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>AI News</title>
  <link>https://example.com</link>
  <description>test</description>
  <item>
    <title>X raises $50M</title>
    <link>https://example.com/x</link>
    <description><![CDATA[<p>The <b>startup</b> closed a round.</p>]]></description>
  </item>
  <item>
    <title>No link here</title>
    <description>skipped</description>
  </item>
  <item>
    <title>Y launches model</title>
    <link>https://example.com/y</link>
  </item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, sampleFeed)
	}))
	defer srv.Close()

	items, err := NewRSS(srv.URL, 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	assert.Equal(t, len(items), 2)
	assert.Equal(t, items[0].Title, "X raises $50M")
	assert.Equal(t, items[0].Body, "The startup closed a round.")
	assert.Equal(t, items[0].Link, "https://example.com/x")
	assert.Equal(t, items[0].Source, "AI News")
	assert.Equal(t, items[1].Title, "Y launches model")
	assert.Equal(t, items[1].Body, "")
}

func TestRSSFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewRSS(srv.URL, time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestRSSFetchMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "this is not a feed")
	}))
	defer srv.Close()

	if _, err := NewRSS(srv.URL, time.Second).Fetch(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, StripHTML("plain text "), "plain text")
	assert.Equal(t, StripHTML("<p>Hello <a href='#'>world</a></p>\n<p>again</p>"), "Hello world again")
	assert.Equal(t, StripHTML("AT&amp;T"), "AT&T")
	assert.Equal(t, StripHTML(""), "")
}
