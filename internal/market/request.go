// Package market turns raw request input into the symbol list and the candle
// window that the price service works with. Everything here is pure.
package market

import (
	"strings"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

// ParseSymbols splits a comma separated ticker list.
//
// Entries are trimmed and empty entries are discarded. Order is preserved and
// duplicates are kept; callers that key results by symbol collapse them naturally.
// An empty or blank input yields an empty, non-nil slice.
func ParseSymbols(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseRange resolves the range selector. Unknown or missing values map to
// models.DefaultRange; it never fails.
func ParseRange(raw string) models.Range {
	switch r := models.Range(strings.TrimSpace(raw)); r {
	case models.RangeDay, models.RangeWeek, models.RangeMonth, models.RangeAll:
		return r
	default:
		return models.DefaultRange
	}
}
