package interfaces

import (
	"context"

	"tradesage/internal/types"
)

// MarketData is the price-data provider consumed by the research pipeline.
// It is authoritative for price and fundamentals; implementations must not
// fabricate or interpolate values.
type MarketData interface {
	// History returns daily bars for the given range (e.g. "6mo"). A symbol
	// unknown to the provider yields an empty series, not an error.
	History(ctx context.Context, symbol, period string) ([]types.Bar, error)

	// Info fetches the provider's metadata record for the symbol, already
	// normalized into the fixed fundamentals field set.
	Info(ctx context.Context, symbol string) (types.Fundamentals, error)

	// News returns up to limit items from the provider's native headline feed.
	News(ctx context.Context, symbol string, limit int) ([]types.Headline, error)
}
