package storage

import (
	"context"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

// FetchRecorder receives the per-symbol outcomes of a price request.
type FetchRecorder interface {
	Record(ctx context.Context, records []models.FetchRecord) error
}

// NopRecorder discards every record. Used when the fetch log is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, []models.FetchRecord) error { return nil }

type repoRecorder struct {
	repo FetchLogRepository
}

// NewFetchRecorder writes records through the fetch log repository.
func NewFetchRecorder(repo FetchLogRepository) FetchRecorder {
	return &repoRecorder{repo: repo}
}

func (r *repoRecorder) Record(ctx context.Context, records []models.FetchRecord) error {
	return r.repo.InsertFetchRecords(ctx, records)
}
