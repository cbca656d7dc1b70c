package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/quotepulse/internal/domain/models"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/market"
	"github.com/guttosm/quotepulse/internal/storage"
)

const (
	defaultMaxParallel  = 8
	defaultFetchTimeout = 10 * time.Second
	recordTimeout       = 2 * time.Second
)

// ErrMissingAPIKey is returned for every request while no upstream credential is configured.
var ErrMissingAPIKey = errors.New("upstream API key is not configured")

// errEmptyResult guards against a fetcher returning neither data nor an error.
var errEmptyResult = errors.New("fetcher returned no result")

// CandleFetcher retrieves normalized candle data for a single symbol.
// *finnhub.Client satisfies it.
type CandleFetcher interface {
	Candles(ctx context.Context, token, symbol string, q models.CandleQuery) (*models.SymbolResult, error)
}

// PriceService aggregates price data for a list of symbols.
type PriceService interface {
	GetPrices(ctx context.Context, symbols []string, rng models.Range) (map[string]*models.SymbolResult, error)
}

// PriceServiceConfig holds the injected settings of the price service.
//
// Fields:
//   - APIKey: upstream credential; empty means every request fails with ErrMissingAPIKey.
//   - MaxParallel: upper bound of concurrent upstream calls per request (default 8).
//   - FetchTimeout: deadline of a single upstream call (default 10s).
//   - Now: clock used to build the candle window (default time.Now).
type PriceServiceConfig struct {
	APIKey       string
	MaxParallel  int
	FetchTimeout time.Duration
	Now          func() time.Time
}

type priceService struct {
	fetcher  CandleFetcher
	recorder storage.FetchRecorder
	cfg      PriceServiceConfig
}

// NewPriceService wires the fetch orchestrator. A nil recorder disables the fetch log.
func NewPriceService(fetcher CandleFetcher, recorder storage.FetchRecorder, cfg PriceServiceConfig) PriceService {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = defaultMaxParallel
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if recorder == nil {
		recorder = storage.NopRecorder{}
	}
	return &priceService{fetcher: fetcher, recorder: recorder, cfg: cfg}
}

// fetchOutcome is the result of one per-symbol task: data or the reason it failed.
type fetchOutcome struct {
	symbol  string
	result  *models.SymbolResult
	err     error
	latency time.Duration
}

// GetPrices fetches every distinct symbol concurrently and returns one entry per
// symbol. A symbol whose fetch failed maps to nil; only a missing credential
// fails the call as a whole.
func (s *priceService) GetPrices(ctx context.Context, symbols []string, rng models.Range) (map[string]*models.SymbolResult, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if len(symbols) == 0 {
		return map[string]*models.SymbolResult{}, nil
	}

	q := market.Query(rng, s.cfg.Now())
	outcomes := s.fetchAll(ctx, distinct(symbols), q)
	prices := assemble(symbols, outcomes)

	s.record(ctx, rng, outcomes)
	return prices, nil
}

// fetchAll fans out one task per symbol and waits for all of them. Tasks never
// return an error to the group, so a failing symbol cannot cancel its siblings.
// Each task owns its slot in the returned slice.
func (s *priceService) fetchAll(ctx context.Context, symbols []string, q models.CandleQuery) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallel)
	for i, sym := range symbols {
		g.Go(func() error {
			outcomes[i] = s.fetchOne(gctx, sym, q)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *priceService) fetchOne(ctx context.Context, symbol string, q models.CandleQuery) (out fetchOutcome) {
	out.symbol = symbol
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.result = nil
			out.err = fmt.Errorf("fetcher panic: %v", r)
		}
		out.latency = time.Since(start)
		if out.err != nil {
			logger.FromContext(ctx).Warn().
				Str("symbol", symbol).
				Str("resolution", string(q.Resolution)).
				Int64("latency_ms", out.latency.Milliseconds()).
				Err(out.err).
				Msg("symbol fetch failed")
		}
	}()

	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	res, err := s.fetcher.Candles(fctx, s.cfg.APIKey, symbol, q)
	switch {
	case err != nil:
		out.err = err
	case res == nil:
		out.err = errEmptyResult
	default:
		out.result = res
	}
	return out
}

// assemble keys outcomes by symbol. Every requested symbol gets exactly one key;
// failed or missing outcomes become nil.
func assemble(symbols []string, outcomes []fetchOutcome) map[string]*models.SymbolResult {
	bySymbol := make(map[string]fetchOutcome, len(outcomes))
	for _, o := range outcomes {
		bySymbol[o.symbol] = o
	}

	prices := make(map[string]*models.SymbolResult, len(symbols))
	for _, sym := range symbols {
		if o, ok := bySymbol[sym]; ok && o.err == nil {
			prices[sym] = o.result
			continue
		}
		prices[sym] = nil
	}
	return prices
}

// record hands the outcomes to the fetch log. It outlives caller cancellation
// for a short while and never fails the request.
func (s *priceService) record(ctx context.Context, rng models.Range, outcomes []fetchOutcome) {
	now := s.cfg.Now().UTC()
	rid := logger.RequestID(ctx)

	records := make([]models.FetchRecord, 0, len(outcomes))
	for _, o := range outcomes {
		rec := models.FetchRecord{
			RequestID: rid,
			Symbol:    o.symbol,
			Range:     rng,
			Status:    models.FetchStatusOK,
			LatencyMs: o.latency.Milliseconds(),
			FetchedAt: now,
		}
		if o.err != nil {
			rec.Status = models.FetchStatusFailed
			rec.Reason = o.err.Error()
		} else {
			rec.Points = len(o.result.History)
		}
		records = append(records, rec)
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.Record(rctx, records); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Int("records", len(records)).Msg("fetch log write failed")
	}
}

// distinct drops repeated symbols, keeping first-seen order.
func distinct(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
