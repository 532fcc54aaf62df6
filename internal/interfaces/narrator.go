package interfaces

import (
	"context"

	"tradesage/internal/types"
)

// Narrator produces the persona-styled analysis for an assembled record.
// It never returns an error: generation failures come back as an Analysis
// with Failed set, so the presentation layer always has content to render.
type Narrator interface {
	Analyze(ctx context.Context, record *types.MarketRecord, horizonDays int) types.Analysis
}
