package types

import "time"

// Bar is a single daily price bar. Series are kept in chronological order
// exactly as the provider returned them; no gap filling is performed.
type Bar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Fundamentals is the fixed field set projected from the provider's
// metadata record. A nil field means the provider did not report it; it is
// rendered downstream as "Not available" and never conflated with zero.
type Fundamentals struct {
	Name             *string
	BusinessSummary  *string
	MarketCap        *float64
	TrailingPE       *float64
	ForwardPE        *float64
	ReturnOnEquity   *float64
	DebtToEquity     *float64
	FreeCashflow     *float64
	GrossMargins     *float64
	OperatingMargins *float64
}

// Headline is one item from the price provider's native news feed.
type Headline struct {
	Title     string
	Publisher string
}

// SearchResult is one ranked hit from the semantic search provider.
type SearchResult struct {
	Title         string
	URL           string
	Text          string
	PublishedDate string
}

// MarketRecord is the assembled handoff artifact for the narrative
// generator. It is constructed once per request and never mutated.
type MarketRecord struct {
	Symbol        string
	Name          string
	CurrentPrice  float64
	Chart         []Bar  // full lookback window, chart-ready
	RecentHistory string // trailing bars rendered as a fixed-width table
	Fundamentals  Fundamentals
	Context       string // news/sentiment block, never empty
}

// Analysis is the tagged result of a narrative generation call. Generation
// failures are reported as renderable content rather than errors; Failed
// lets callers tell a real analysis from a failure without text matching.
type Analysis struct {
	Text   string
	Failed bool
	Reason string
}
