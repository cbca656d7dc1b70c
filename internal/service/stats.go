package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/storage"
)

// ErrStatsUnavailable is returned when the fetch log is not enabled.
var ErrStatsUnavailable = errors.New("fetch log is disabled")

// StatsService reads fetch outcome statistics from the fetch log.
type StatsService interface {
	GetFetchStats(ctx context.Context, symbol string, since *time.Time) (*models.FetchStats, error)
}

type statsService struct {
	repo storage.FetchLogRepository
}

// NewStatsService accepts a nil repository, in which case every call returns ErrStatsUnavailable.
func NewStatsService(repo storage.FetchLogRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetFetchStats(ctx context.Context, symbol string, since *time.Time) (*models.FetchStats, error) {
	if s.repo == nil {
		return nil, ErrStatsUnavailable
	}
	return s.repo.GetFetchStats(ctx, symbol, since)
}
