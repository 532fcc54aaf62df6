package research

import (
	"context"

	"tradesage/internal/interfaces"
	"tradesage/internal/logger"
	"tradesage/internal/store"
	"tradesage/internal/types"
)

// Service is the single entry point exposed to the presentation layer:
// raw user text in, assembled MarketRecord out. Each call is independent
// and stateless; the resolver completes fully before aggregation begins.
type Service struct {
	resolver   *Resolver
	aggregator *Aggregator
}

// NewService wires a resolver and aggregator over the given providers.
func NewService(cfg *store.Config, market interfaces.MarketData, search interfaces.Searcher) *Service {
	return &Service{
		resolver:   NewResolver(cfg, market, search),
		aggregator: NewAggregator(cfg, market, search),
	}
}

// Fetch resolves userInput and assembles the record. horizonDays is carried
// through for the narrative layer and does not change any fetch window.
// Resolution failures come back as *NotFoundError with a user-facing
// message; aggregation failures pass through with their raw description.
func (s *Service) Fetch(ctx context.Context, userInput string, horizonDays int) (*types.MarketRecord, error) {
	op := logger.StartOperation(ctx, "fetch-market-data", "query", userInput, "horizon_days", horizonDays)
	ctx = op.GetContext()

	symbol, history, err := s.resolver.ResolveAndFetch(ctx, userInput)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	record, err := s.aggregator.Assemble(ctx, symbol, history)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	op.End("symbol", symbol, "bars", len(history))
	return record, nil
}
