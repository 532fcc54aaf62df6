package exa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradesage/internal/interfaces"
)

func TestUnconfiguredClient(t *testing.T) {
	c := New("")
	if c.Configured() {
		t.Error("expected empty key to be unconfigured")
	}
	if _, err := c.Search(context.Background(), "apple", 1); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.SearchContents(context.Background(), interfaces.ContentsQuery{Query: "apple"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchRequestShape(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header, got %q", r.Header.Get("x-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"results":[{"title":"Apple Inc. (AAPL)","url":"https://finance.yahoo.com/quote/AAPL/"}]}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBase(srv.URL))
	results, err := c.Search(context.Background(), "site:finance.yahoo.com/quote apple", 1)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if got.Query != "site:finance.yahoo.com/quote apple" {
		t.Errorf("unexpected query %q", got.Query)
	}
	if got.NumResults != 1 {
		t.Errorf("expected numResults 1, got %d", got.NumResults)
	}
	if got.Type != "neural" {
		t.Errorf("expected neural search, got %q", got.Type)
	}
	if got.Contents != nil {
		t.Error("plain search must not request contents")
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].URL != "https://finance.yahoo.com/quote/AAPL/" {
		t.Errorf("unexpected url %q", results[0].URL)
	}
}

func TestSearchContentsRequestShape(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		w.Write([]byte(`{"results":[
			{"title":"Moat analysis","url":"https://example.com/a","publishedDate":"2026-08-28","text":"Strong brand."}
		]}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBase(srv.URL))
	results, err := c.SearchContents(context.Background(), interfaces.ContentsQuery{
		Query:              "recent financial news for Apple Inc. (AAPL)",
		NumResults:         5,
		Category:           "news",
		StartPublishedDate: "2026-08-25T00:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if got.Category != "news" {
		t.Errorf("expected news category, got %q", got.Category)
	}
	if got.StartPublishedDate != "2026-08-25T00:00:00.000Z" {
		t.Errorf("unexpected start date %q", got.StartPublishedDate)
	}
	if got.Contents == nil || !got.Contents.Text {
		t.Error("contents search must request text")
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Text != "Strong brand." || results[0].PublishedDate != "2026-08-28" {
		t.Errorf("unexpected result %+v", results[0])
	}
}

func TestSearchHTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New("bad-key", WithBase(srv.URL))
	if _, err := c.Search(context.Background(), "apple", 1); err == nil {
		t.Fatal("expected error on HTTP 401")
	}
}
