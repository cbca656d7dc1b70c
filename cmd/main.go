package main

//
//  @title           quotepulse API
//  @version         1.0
//  @description     Concurrent price history aggregation over a candle provider.
//  @termsOfService  https://github.com/guttosm/quotepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/quotepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        prices
//  @tag.description Price history per symbol
//
//  @tag.name        stats
//  @tag.description Upstream fetch statistics from the fetch log
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/quotepulse/config"
	_ "github.com/guttosm/quotepulse/docs" // swagger docs
	"github.com/guttosm/quotepulse/internal/app"
	"github.com/guttosm/quotepulse/internal/domain/dto"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/market"
	"github.com/guttosm/quotepulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runFetch performs one aggregation and writes {"prices": ...} to out.
func runFetch(ctx context.Context, prices service.PriceService, rawSymbols, rawRange string, out io.Writer) error {
	symbols := market.ParseSymbols(rawSymbols)
	rng := market.ParseRange(rawRange)

	result, err := prices.GetPrices(ctx, symbols, rng)
	if err != nil {
		return fmt.Errorf("fetching prices: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.PricesResponse{Prices: result})
}

// main is the entry point of the quotepulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API.
//   - fetch: Aggregates --symbols over --range once and prints the JSON result.
//
// Flags:
//   - --mode:    Execution mode ("api" or "fetch"). Default: "api".
//   - --symbols: Comma separated symbols for fetch mode.
//   - --range:   1D, 1W, 1M or ALL for fetch mode. Default: "1W".
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Initialize JSON logger before config so validation warnings are structured
	logger.Init()

	// Load configuration from environment or .env file
	config.LoadConfig()

	mode := flag.String("mode", "api", "Mode: api or fetch")
	symbols := flag.String("symbols", "", "Comma separated symbols (fetch mode)")
	rng := flag.String("range", string(market.ParseRange("")), "Range: 1D, 1W, 1M or ALL (fetch mode)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "fetch":
		svc, cleanup, err := app.BuildServices(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		fctx, cancel := context.WithTimeout(ctx, config.AppConfig.Server.RequestTimeout)
		defer cancel()
		if err := runFetch(fctx, svc.Prices, *symbols, *rng, os.Stdout); err != nil {
			logger.L().Error().Err(err).Msg("fetch failed")
			cancel()
			cleanup()
			os.Exit(1)
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
