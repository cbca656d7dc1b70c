package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/market"
	"github.com/guttosm/quotepulse/internal/service"
)

// Handler provides HTTP handlers for the price aggregation endpoints.
//
// Responsibilities:
//   - Parse incoming HTTP query parameters
//   - Delegate to the price and stats services
//   - Translate service results and errors into response DTOs
type Handler struct {
	prices service.PriceService
	stats  service.StatsService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - prices (service.PriceService): per-request fan-out over the upstream provider.
//   - stats (service.StatsService): read side of the fetch log; may report ErrStatsUnavailable.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(prices service.PriceService, stats service.StatsService) *Handler {
	return &Handler{prices: prices, stats: stats}
}

// GetPrices handles GET /api/v1/prices requests.
//
// Query Parameters:
//   - symbols (string, optional): comma separated symbols (e.g., "AAPL,MSFT").
//   - range (string, optional): one of 1D, 1W, 1M, ALL. Anything else means 1W.
//
// Responses:
//   - 200 OK: {"prices": {...}}; symbols that could not be fetched map to null.
//   - 500 Internal Server Error: upstream credential missing or unexpected failure.
//
// GetPrices godoc
// @Summary      Get price history for symbols
// @Description  Fetches candles for every symbol concurrently. A symbol whose fetch fails maps to null.
// @Tags         prices
// @Produce      json
// @Param        symbols  query     string  false  "Comma separated symbols" example(AAPL,MSFT)
// @Param        range    query     string  false  "Time range" Enums(1D, 1W, 1M, ALL) default(1W)
// @Success      200      {object}  dto.PricesResponse  "Success"
// @Failure      500      {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	symbols := market.ParseSymbols(c.Query("symbols"))
	rng := market.ParseRange(c.Query("range"))

	prices, err := h.prices.GetPrices(c.Request.Context(), symbols, rng)
	if err != nil {
		log := logger.FromContext(c.Request.Context())
		if errors.Is(err, service.ErrMissingAPIKey) {
			log.Error().Err(err).Msg("price request rejected")
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(service.ErrMissingAPIKey.Error(), nil))
			return
		}
		log.Error().Err(err).Strs("symbols", symbols).Msg("price request failed")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch prices", nil))
		return
	}

	c.JSON(http.StatusOK, dto.PricesResponse{Prices: prices})
}

// GetFetchStats handles GET /api/v1/fetch-stats requests.
//
// GetFetchStats godoc
// @Summary      Get upstream fetch statistics for a symbol
// @Description  Aggregates the fetch log: total fetches, failures, last failure and average latency
// @Tags         stats
// @Produce      json
// @Param        symbol  query     string  true   "Symbol as requested" example(AAPL)
// @Param        since   query     string  false  "Start date in YYYY-MM-DD" example(2026-01-01)
// @Success      200     {object}  models.FetchStats   "Success"
// @Failure      400     {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse   "Not Found"
// @Failure      500     {object}  dto.ErrorResponse   "Internal Error"
// @Failure      503     {object}  dto.ErrorResponse   "Fetch log disabled"
// @Router       /api/v1/fetch-stats [get]
func (h *Handler) GetFetchStats(c *gin.Context) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	var since *time.Time
	if s := c.Query("since"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid since format, expected YYYY-MM-DD", err))
			return
		}
		since = &parsed
	}

	stats, err := h.stats.GetFetchStats(c.Request.Context(), symbol, since)
	switch {
	case errors.Is(err, service.ErrStatsUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(err.Error(), nil))
		return
	case err != nil:
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("symbol", symbol).Msg("fetch stats query failed")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch stats", nil))
		return
	case stats == nil:
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found", nil))
		return
	}

	c.JSON(http.StatusOK, stats)
}
