package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/quotepulse/config"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/provider/finnhub"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/storage"
)

// Services groups the business layer shared by the HTTP server and the
// one-shot fetch mode.
type Services struct {
	Prices service.PriceService
	Stats  service.StatsService
	// Ping reports fetch log connectivity; nil when the fetch log is disabled.
	Ping func() error
}

// BuildServices wires the upstream client, the optional fetch log and the
// services on top of them. The returned cleanup closes the database, if any.
func BuildServices(cfg config.Config) (*Services, func(), error) {
	client := finnhub.NewClient(
		finnhub.WithBaseURL(cfg.Finnhub.BaseURL),
		finnhub.WithHTTPClient(finnhub.NewHTTPClient(cfg.Finnhub.FetchTimeout)),
	)

	var (
		db       *sql.DB
		repo     storage.FetchLogRepository
		recorder storage.FetchRecorder = storage.NopRecorder{}
		ping     func() error
	)
	if cfg.Postgres.Enabled {
		var err error
		db, err = postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := postgresMigrator(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo = storage.NewFetchLogRepository(db)
		recorder = storage.NewFetchRecorder(repo)
		ping = repo.Ping
		logger.L().Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DBName).Msg("fetch log enabled")
	}

	svc := &Services{
		Prices: service.NewPriceService(client, recorder, service.PriceServiceConfig{
			APIKey:       cfg.Finnhub.APIKey,
			MaxParallel:  cfg.Finnhub.MaxParallel,
			FetchTimeout: cfg.Finnhub.FetchTimeout,
		}),
		Stats: service.NewStatsService(repo),
		Ping:  ping,
	}

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return svc, cleanup, nil
}
