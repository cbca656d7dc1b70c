package finnhub

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

// Candles is a validated candle payload: parallel arrays of equal length.
type Candles struct {
	Timestamps []int64   // seconds since epoch
	Closes     []float64 // closing prices
}

// candleEnvelope mirrors the wire format. Pointers distinguish a missing or null
// array from an empty one, and a null element from a zero.
//
//	{"s": "ok", "t": [1700000000, ...], "c": [189.3, ...], "o": [...], ...}
type candleEnvelope struct {
	Status     string      `json:"s"`
	Timestamps *[]*int64   `json:"t"`
	Closes     *[]*float64 `json:"c"`
}

// Decode validates an upstream candle body.
//
// It returns ErrMalformed when the body is not JSON, the status marker is not
// "ok" (this includes "no_data"), "t" or "c" is missing, null or not an array,
// an element of either array is null, or the two arrays differ in length.
func Decode(r io.Reader) (Candles, error) {
	var env candleEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return Candles{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Status != statusOK {
		return Candles{}, fmt.Errorf("%w: status %q", ErrMalformed, env.Status)
	}
	if env.Timestamps == nil || env.Closes == nil {
		return Candles{}, fmt.Errorf("%w: missing t or c", ErrMalformed)
	}
	if len(*env.Timestamps) != len(*env.Closes) {
		return Candles{}, fmt.Errorf("%w: t has %d entries, c has %d", ErrMalformed, len(*env.Timestamps), len(*env.Closes))
	}

	out := Candles{
		Timestamps: make([]int64, len(*env.Timestamps)),
		Closes:     make([]float64, len(*env.Closes)),
	}
	for i, ts := range *env.Timestamps {
		c := (*env.Closes)[i]
		if ts == nil || c == nil {
			return Candles{}, fmt.Errorf("%w: null entry at index %d", ErrMalformed, i)
		}
		out.Timestamps[i] = *ts
		out.Closes[i] = *c
	}
	return out, nil
}

// Result zips the arrays into a SymbolResult. Timestamps become milliseconds and
// the latest price is the last close, or nil when there are no candles.
func (c Candles) Result() *models.SymbolResult {
	history := make([]models.QuotePoint, len(c.Timestamps))
	for i, ts := range c.Timestamps {
		history[i] = models.QuotePoint{Time: ts * 1000, Price: c.Closes[i]}
	}

	var latest *float64
	if n := len(c.Closes); n > 0 {
		v := c.Closes[n-1]
		latest = &v
	}
	return &models.SymbolResult{LatestPrice: latest, History: history}
}
