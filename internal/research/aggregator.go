package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradesage/internal/interfaces"
	"tradesage/internal/logger"
	"tradesage/internal/store"
	"tradesage/internal/trace"
	"tradesage/internal/types"
)

const (
	searchContextHeader = "--- Web Search Results ---"
	fallbackHeader      = "--- Fallback Source (provider headlines) ---"
	noNewsPlaceholder   = "No recent news fetched."
	entryDivider        = "\n---"
	truncationMarker    = "..."
)

// Aggregator assembles one MarketRecord for a confirmed symbol. Its context
// and fundamentals sub-steps tolerate their own failures; anything else
// aborts the whole request with no partial record.
type Aggregator struct {
	market interfaces.MarketData
	search interfaces.Searcher
	cfg    *store.Config
}

// NewAggregator creates an aggregator. search may be nil or unconfigured,
// in which case the context block always comes from the headline fallback.
func NewAggregator(cfg *store.Config, market interfaces.MarketData, search interfaces.Searcher) *Aggregator {
	return &Aggregator{
		market: market,
		search: search,
		cfg:    cfg,
	}
}

// Assemble builds the record from the already-fetched history. history must
// be non-empty: the resolver only confirms symbols with data.
func (a *Aggregator) Assemble(ctx context.Context, symbol string, history []types.Bar) (*types.MarketRecord, error) {
	ctx, span := trace.StartSpan(ctx, "assemble-record")
	defer span.End()

	if len(history) == 0 {
		return nil, errors.New("assemble: empty price history")
	}

	fundamentals, err := a.market.Info(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch fundamentals: %w", err)
	}

	name := symbol
	if fundamentals.Name != nil && *fundamentals.Name != "" {
		name = *fundamentals.Name
	}

	return &types.MarketRecord{
		Symbol:        symbol,
		Name:          name,
		CurrentPrice:  history[len(history)-1].Close,
		Chart:         history,
		RecentHistory: renderRecent(history, a.cfg.Market.TrailingBars),
		Fundamentals:  fundamentals,
		Context:       a.buildContext(ctx, name, symbol),
	}, nil
}

// renderRecent renders the trailing n bars as a fixed-width table suitable
// for inclusion in a prompt.
func renderRecent(history []types.Bar, n int) string {
	if n > len(history) {
		n = len(history)
	}
	tail := history[len(history)-n:]

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %14s\n", "Date", "Close", "Volume")
	for _, bar := range tail {
		fmt.Fprintf(&b, "%-12s %12.2f %14.0f\n", bar.Date.Format("2006-01-02"), bar.Close, bar.Volume)
	}
	return b.String()
}

// buildContext produces the news/sentiment block from exactly one source:
// the semantic search when it is configured and yields results, otherwise
// the provider's native headline feed. The two are never merged, and the
// returned block is never empty.
func (a *Aggregator) buildContext(ctx context.Context, name, symbol string) string {
	if block := a.searchContext(ctx, name, symbol); block != "" {
		return block
	}
	return a.headlineContext(ctx, symbol)
}

func (a *Aggregator) searchContext(ctx context.Context, name, symbol string) string {
	if a.search == nil || !a.search.Configured() {
		return ""
	}

	query := fmt.Sprintf(
		"competitive advantage, economic moat analysis, and recent financial news for %s (%s)",
		name, symbol)

	results, err := a.search.SearchContents(ctx, interfaces.ContentsQuery{
		Query:              query,
		NumResults:         a.cfg.Search.NumResults,
		Category:           "news",
		StartPublishedDate: time.Now().AddDate(0, 0, -a.cfg.Search.LookbackDays).Format("2006-01-02"),
	})
	if err != nil {
		logger.Warn(ctx, "Search context fetch failed, using headline fallback", "symbol", symbol, "error", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	entries := make([]string, 0, len(results))
	for _, r := range results {
		published := r.PublishedDate
		if published == "" {
			published = "Unknown Date"
		}
		entries = append(entries, fmt.Sprintf(
			"Title: %s\nSource: %s\nDate: %s\nContent: %s\n",
			r.Title, r.URL, published, truncate(r.Text, a.cfg.Search.MaxExcerpt)))
	}
	return searchContextHeader + "\n" + strings.Join(entries, entryDivider)
}

func (a *Aggregator) headlineContext(ctx context.Context, symbol string) string {
	items, err := a.market.News(ctx, symbol, a.cfg.Search.NumResults)
	if err != nil {
		logger.Warn(ctx, "Headline fetch failed", "symbol", symbol, "error", err)
		items = nil
	}

	body := noNewsPlaceholder
	if len(items) > 0 {
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, fmt.Sprintf("- %s (%s)", item.Title, item.Publisher))
		}
		body = strings.Join(lines, "\n")
	}
	return fallbackHeader + "\n" + body
}

// truncate cuts s at max characters, appending the truncation marker.
// Bodies at or under the limit pass through unmodified. Counting runes
// keeps multibyte bodies intact and never cuts mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}
