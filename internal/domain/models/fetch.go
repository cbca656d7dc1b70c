package models

import "time"

// Fetch outcome statuses stored in the fetch log.
const (
	FetchStatusOK     = "ok"
	FetchStatusFailed = "failed"
)

// FetchRecord describes the outcome of one upstream fetch for one symbol.
//
// Records are written in batches after a request has been assembled and are
// only used for diagnostics; they never influence the response.
type FetchRecord struct {
	RequestID string
	Symbol    string
	Range     Range
	Status    string
	Reason    string
	Points    int
	LatencyMs int64
	FetchedAt time.Time
}

// FetchStats summarizes the fetch log for a symbol.
//
// swagger:model FetchStats
type FetchStats struct {
	Symbol        string     `json:"symbol" example:"AAPL"`
	Total         int64      `json:"total" example:"42"`
	Failed        int64      `json:"failed" example:"3"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	AvgLatencyMs  float64    `json:"avg_latency_ms" example:"183.5"`
}
