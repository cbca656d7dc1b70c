package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/quotepulse/internal/domain/models"
	pq "github.com/lib/pq"
)

// FetchLogRepository defines the contract for fetch log persistence.
type FetchLogRepository interface {
	InsertFetchRecords(ctx context.Context, records []models.FetchRecord) error
	GetFetchStats(ctx context.Context, symbol string, since *time.Time) (*models.FetchStats, error)
	Ping() error
}

type fetchLogRepository struct {
	db *sql.DB
}

func NewFetchLogRepository(db *sql.DB) FetchLogRepository {
	return &fetchLogRepository{db: db}
}

// InsertFetchRecords bulk loads records into fetch_log in a single transaction.
func (r *fetchLogRepository) InsertFetchRecords(ctx context.Context, records []models.FetchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// The log is diagnostic; losing the tail on a crash is acceptable.
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"fetch_log",
		"request_id",
		"symbol",
		"range_token",
		"status",
		"reason",
		"points",
		"latency_ms",
		"fetched_at",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range records {
		fetchedAt := rec.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			rec.RequestID,
			rec.Symbol,
			string(rec.Range),
			rec.Status,
			rec.Reason,
			rec.Points,
			rec.LatencyMs,
			fetchedAt,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetFetchStats summarizes fetch outcomes for a symbol, optionally since a point in time.
// It returns nil, nil when the symbol has no rows in range.
func (r *fetchLogRepository) GetFetchStats(ctx context.Context, symbol string, since *time.Time) (*models.FetchStats, error) {
	// $1 is always the symbol; the optional lower bound follows.
	conditions := "symbol = $1"
	args := []interface{}{symbol}
	if since != nil {
		conditions += fmt.Sprintf(" AND fetched_at >= $%d", len(args)+1)
		args = append(args, *since)
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed,
			MAX(fetched_at) FILTER (WHERE status = 'failed') AS last_failure_at,
			AVG(latency_ms) AS avg_latency_ms
		FROM fetch_log
		WHERE %s
	`, conditions)

	var (
		total       int64
		failed      int64
		lastFailure sql.NullTime
		avgLatency  sql.NullFloat64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &failed, &lastFailure, &avgLatency); err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	stats := &models.FetchStats{Symbol: symbol, Total: total, Failed: failed}
	if lastFailure.Valid {
		t := lastFailure.Time
		stats.LastFailureAt = &t
	}
	if avgLatency.Valid {
		stats.AvgLatencyMs = avgLatency.Float64
	}
	return stats, nil
}

func (r *fetchLogRepository) Ping() error {
	return r.db.Ping()
}
