package app

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/config"
	"github.com/guttosm/quotepulse/internal/api"
	"github.com/guttosm/quotepulse/internal/middleware"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the services (upstream client, optional fetch log) via BuildServices().
//   - Creates the HTTP handler layer and the Gin router.
//   - Applies the configured rate limit.
//   - Registers health and readiness probes.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	svc, cleanup, err := BuildServices(cfg)
	if err != nil {
		return nil, nil, err
	}

	middleware.SetRateLimit(cfg.Server.RateLimitPerMinute)

	handler := api.NewHandler(svc.Prices, svc.Stats)
	router := api.NewRouter(handler, cfg.Server.RequestTimeout)

	healthHandler := api.NewHealthHandler(svc.Ping)
	healthHandler.Register(router)

	return router, cleanup, nil
}
