package models

import "time"

// Range selects how far back a price history reaches.
//
// Accepted values are "1D", "1W", "1M" and "ALL". Anything else is folded into
// DefaultRange by the request parser.
type Range string

const (
	RangeDay   Range = "1D"
	RangeWeek  Range = "1W"
	RangeMonth Range = "1M"
	RangeAll   Range = "ALL"

	// DefaultRange is used when the caller omits the range or sends an unknown token.
	DefaultRange = RangeWeek
)

// Resolution is the sampling granularity requested from the upstream provider.
type Resolution string

const (
	ResolutionFiveMinutes   Resolution = "5"
	ResolutionThirtyMinutes Resolution = "30"
	ResolutionDaily         Resolution = "D"
	ResolutionWeekly        Resolution = "W"
)

// CandleQuery is the upstream window derived from a Range at request time.
//
// Fields:
//   - Resolution: candle granularity.
//   - From: start of the window (inclusive).
//   - To: end of the window, always "now" when the query was built.
type CandleQuery struct {
	Resolution Resolution
	From       time.Time
	To         time.Time
}

// QuotePoint is one historical sample.
//
// Time is expressed in milliseconds since the Unix epoch.
type QuotePoint struct {
	Time  int64   `json:"time" example:"1700000000000"`
	Price float64 `json:"price" example:"189.37"`
}

// SymbolResult is the normalized price data for a single symbol.
//
// A failed symbol is represented by a nil *SymbolResult so that it encodes as JSON null.
//
// swagger:model SymbolResult
type SymbolResult struct {
	LatestPrice *float64     `json:"latestPrice" example:"189.37"`
	History     []QuotePoint `json:"history"`
}
