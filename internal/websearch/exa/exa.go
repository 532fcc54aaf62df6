// Package exa implements the semantic search provider against the Exa
// search API. The client is best-effort by contract: a missing credential
// makes every call fail, and callers are expected to downgrade any failure
// to "no result".
package exa

import (
	"context"
	"errors"
	"time"

	"tradesage/internal/api"
	"tradesage/internal/interfaces"
	"tradesage/internal/trace"
	"tradesage/internal/types"
)

const defaultBase = "https://api.exa.ai"

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("exa: api key not configured")

// Client talks to the Exa search API.
type Client struct {
	http   *api.Client
	apiKey string
	base   string
}

// Option configures the client.
type Option func(*Client)

// WithBase overrides the API base URL (used in tests).
func WithBase(base string) Option {
	return func(c *Client) {
		c.base = base
	}
}

// New creates an Exa client. An empty apiKey yields an unconfigured client
// whose calls all fail with ErrNotConfigured.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:   api.NewClient(api.WithTimeout(30 * time.Second)),
		apiKey: apiKey,
		base:   defaultBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is available.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchRequest struct {
	Query              string        `json:"query"`
	NumResults         int           `json:"numResults"`
	Type               string        `json:"type"`
	Category           string        `json:"category,omitempty"`
	StartPublishedDate string        `json:"startPublishedDate,omitempty"`
	Contents           *contentsSpec `json:"contents,omitempty"`
}

type contentsSpec struct {
	Text bool `json:"text"`
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		PublishedDate string `json:"publishedDate"`
		Text          string `json:"text"`
	} `json:"results"`
}

// Search returns up to numResults ranked hits without body text. Used for
// symbol resolution against quote-page URLs.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]types.SearchResult, error) {
	return c.search(ctx, searchRequest{
		Query:      query,
		NumResults: numResults,
		Type:       "neural",
	})
}

// SearchContents returns ranked hits with the full text of each result.
// Used for the news context block.
func (c *Client) SearchContents(ctx context.Context, q interfaces.ContentsQuery) ([]types.SearchResult, error) {
	return c.search(ctx, searchRequest{
		Query:              q.Query,
		NumResults:         q.NumResults,
		Type:               "neural",
		Category:           q.Category,
		StartPublishedDate: q.StartPublishedDate,
		Contents:           &contentsSpec{Text: true},
	})
}

func (c *Client) search(ctx context.Context, req searchRequest) ([]types.SearchResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, span := trace.StartSpan(ctx, "exa-search")
	defer span.End()

	resp, err := c.http.POST(ctx, c.base+"/search", req, map[string]string{
		"x-api-key": c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, types.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Text:          r.Text,
			PublishedDate: r.PublishedDate,
		})
	}
	return results, nil
}
