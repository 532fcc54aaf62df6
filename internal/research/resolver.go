package research

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"tradesage/internal/interfaces"
	"tradesage/internal/logger"
	"tradesage/internal/store"
	"tradesage/internal/trace"
	"tradesage/internal/types"
)

// quote-page URLs look like https://finance.yahoo.com/quote/AAPL/ or, for
// indices, .../quote/%5ENSEI (the caret is percent-encoded).
var quotePathPattern = regexp.MustCompile(`/quote/([^/?]+)`)

// Resolver turns a raw user string into a confirmed symbol with verified
// non-empty price history. Direct interpretation wins; a single search-based
// lookup is the only fallback.
type Resolver struct {
	market interfaces.MarketData
	search interfaces.Searcher
	period string
}

// NewResolver creates a resolver. search may be nil or unconfigured, in
// which case only direct resolution is attempted.
func NewResolver(cfg *store.Config, market interfaces.MarketData, search interfaces.Searcher) *Resolver {
	return &Resolver{
		market: market,
		search: search,
		period: cfg.Market.HistoryPeriod,
	}
}

// ResolveAndFetch resolves userInput and returns the confirmed symbol with
// its price history. The first fetch that yields a non-empty series wins;
// no further candidates are considered after that. If neither the direct
// nor the search-resolved fetch yields data, the error is a *NotFoundError
// echoing userInput.
func (r *Resolver) ResolveAndFetch(ctx context.Context, userInput string) (string, []types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "resolve-symbol")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(userInput))

	history, err := r.market.History(ctx, symbol, r.period)
	if err != nil {
		return "", nil, fmt.Errorf("fetch price history: %w", err)
	}

	if len(history) == 0 {
		logger.Info(ctx, "Direct fetch returned no data, attempting search resolution", "candidate", symbol)

		if resolved := r.searchSymbol(ctx, userInput); resolved != "" && resolved != symbol {
			logger.Info(ctx, "Resolved query via search", "input", userInput, "symbol", resolved)
			symbol = resolved
			history, err = r.market.History(ctx, symbol, r.period)
			if err != nil {
				return "", nil, fmt.Errorf("fetch price history: %w", err)
			}
		}

		if len(history) == 0 {
			return "", nil, &NotFoundError{Input: userInput}
		}
	}

	return symbol, history, nil
}

// searchSymbol asks the search provider for the instrument's quote page and
// extracts the symbol token from the top result's URL. Every failure mode
// (no credential, provider error, no result, no matching URL) degrades to
// an empty return; the caller then reports not-found.
func (r *Resolver) searchSymbol(ctx context.Context, query string) string {
	if r.search == nil || !r.search.Configured() {
		logger.Debug(ctx, "Search provider not configured, skipping resolution")
		return ""
	}

	results, err := r.search.Search(ctx, "site:finance.yahoo.com/quote "+query, 1)
	if err != nil {
		logger.Warn(ctx, "Search resolution failed", "query", query, "error", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	return symbolFromQuoteURL(results[0].URL)
}

// symbolFromQuoteURL extracts and percent-decodes the symbol token from a
// quote-page URL ("/quote/%5ENSEI" yields "^NSEI"). Returns "" when the URL
// does not match the pattern.
func symbolFromQuoteURL(rawURL string) string {
	m := quotePathPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	token, err := url.PathUnescape(m[1])
	if err != nil {
		return m[1]
	}
	return token
}
