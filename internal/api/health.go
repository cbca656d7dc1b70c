package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/logger"
)

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe. The upstream provider is not probed; only the
//     fetch log database is, and only when it is enabled.
type HealthHandler struct {
	fetchLogPing func() error // nil when the fetch log is disabled
}

// NewHealthHandler constructs a HealthHandler.
//
// Parameters:
//   - fetchLogPing (func() error): reports fetch log connectivity, typically
//     FetchLogRepository.Ping. Pass nil when the fetch log is disabled.
func NewHealthHandler(fetchLogPing func() error) *HealthHandler {
	return &HealthHandler{fetchLogPing: fetchLogPing}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: 200 with the fetch log state, 503 if the fetch log is unreachable.
func (h *HealthHandler) Register(r *gin.Engine) {
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// @Summary      Readiness probe
	// @Description  Returns ready if the fetch log database (when enabled) is reachable
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", h.ready)
}

func (h *HealthHandler) ready(c *gin.Context) {
	if h.fetchLogPing == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "fetch_log": "disabled"})
		return
	}
	if err := h.fetchLogPing(); err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("fetch log not reachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "fetch_log": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "fetch_log": "ok"})
}
