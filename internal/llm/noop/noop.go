package noop

import (
	"context"

	"tradesage/internal/logger"
	"tradesage/internal/types"
)

// Narrator is the fallback used when no narrative provider is configured.
type Narrator struct{}

// New returns a narrator that always reports generation as unavailable.
func New() *Narrator {
	return &Narrator{}
}

// Analyze implements the Narrator interface. The result is a Failed
// analysis with a renderable reason, matching the contract that generation
// failures are content, not errors.
func (n *Narrator) Analyze(ctx context.Context, record *types.MarketRecord, horizonDays int) types.Analysis {
	logger.Debug(ctx, "Noop narrator called", "symbol", record.Symbol)
	return types.Analysis{
		Failed: true,
		Reason: "no narrative provider configured - set llm.provider to GEMINI and provide GEMINI_API_KEY",
	}
}
