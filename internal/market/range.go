package market

import (
	"time"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

const day = 24 * time.Hour

// Lookback windows per range. Windows are plain durations, so a year is 365 days.
const (
	lookbackDay     = day
	lookbackWeek    = 7 * day
	lookbackMonth   = 31 * day
	lookbackAll     = 5 * 365 * day
	lookbackDefault = 7 * day
)

// Query maps a range onto the upstream candle window ending at now.
//
//	1D  -> 5 minute candles, last 24 hours
//	1W  -> 30 minute candles, last 7 days
//	1M  -> daily candles, last 31 days
//	ALL -> weekly candles, last 5 years
//
// Any other value falls back to daily candles over 7 days.
func Query(r models.Range, now time.Time) models.CandleQuery {
	res, lookback := models.ResolutionDaily, lookbackDefault
	switch r {
	case models.RangeDay:
		res, lookback = models.ResolutionFiveMinutes, lookbackDay
	case models.RangeWeek:
		res, lookback = models.ResolutionThirtyMinutes, lookbackWeek
	case models.RangeMonth:
		res, lookback = models.ResolutionDaily, lookbackMonth
	case models.RangeAll:
		res, lookback = models.ResolutionWeekly, lookbackAll
	}
	return models.CandleQuery{
		Resolution: res,
		From:       now.Add(-lookback),
		To:         now,
	}
}
