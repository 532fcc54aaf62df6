package interfaces

import (
	"context"

	"tradesage/internal/types"
)

// ContentsQuery parameterizes a content-bearing search.
type ContentsQuery struct {
	Query              string
	NumResults         int
	Category           string // e.g. "news"
	StartPublishedDate string // YYYY-MM-DD, empty for no lower bound
}

// Searcher is the semantic search provider. It backs both symbol resolution
// (quote-page lookup) and the news context block. All of its failures are
// soft: callers downgrade them to "no result" and fall back.
type Searcher interface {
	// Configured reports whether a credential is available. Unconfigured
	// searchers fail every call.
	Configured() bool

	// Search returns up to numResults ranked hits without body text.
	Search(ctx context.Context, query string, numResults int) ([]types.SearchResult, error)

	// SearchContents returns ranked hits with full body text per result.
	SearchContents(ctx context.Context, q ContentsQuery) ([]types.SearchResult, error)
}
