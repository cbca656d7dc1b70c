//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "quotepulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=quotepulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "quotepulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openAndMigrate(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(db, filepath.Join("..", "..", "db", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFetchLog_Integration(t *testing.T) {
	dsn, term := startPostgres(t)
	defer term()
	db := openAndMigrate(t, dsn)
	defer db.Close()

	repo := NewFetchLogRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	records := []models.FetchRecord{
		{RequestID: "a", Symbol: "AAPL", Range: models.RangeWeek, Status: models.FetchStatusOK, Points: 10, LatencyMs: 100, FetchedAt: base},
		{RequestID: "b", Symbol: "AAPL", Range: models.RangeDay, Status: models.FetchStatusFailed, Reason: "unexpected status code: 429", LatencyMs: 300, FetchedAt: base.Add(10 * time.Minute)},
		{RequestID: "b", Symbol: "MSFT", Range: models.RangeDay, Status: models.FetchStatusOK, Points: 5, LatencyMs: 50, FetchedAt: base.Add(10 * time.Minute)},
	}
	if err := repo.InsertFetchRecords(ctx, records); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stats, err := repo.GetFetchStats(ctx, "AAPL", nil)
	if err != nil || stats == nil {
		t.Fatalf("stats: out=%+v err=%v", stats, err)
	}
	if stats.Total != 2 || stats.Failed != 1 || stats.AvgLatencyMs != 200 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.LastFailureAt == nil || !stats.LastFailureAt.Equal(base.Add(10*time.Minute)) {
		t.Fatalf("unexpected last failure: %v", stats.LastFailureAt)
	}

	since := base.Add(5 * time.Minute)
	stats, err = repo.GetFetchStats(ctx, "AAPL", &since)
	if err != nil || stats == nil || stats.Total != 1 {
		t.Fatalf("since filter: out=%+v err=%v", stats, err)
	}

	none, err := repo.GetFetchStats(ctx, "NOPE", nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil,nil for unknown symbol, got %+v %v", none, err)
	}
}
