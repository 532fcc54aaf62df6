package research

import "fmt"

// NotFoundError reports that no instrument with usable price data could be
// found for the user's query, after both direct and search-based resolution.
// Its message echoes the query verbatim and carries no provider internals.
type NotFoundError struct {
	Input string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find market data for %q. Try entering the exact ticker (e.g., AAPL)", e.Input)
}
