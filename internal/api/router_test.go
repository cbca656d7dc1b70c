package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/internal/domain/models"
)

// deadlinePriceService reports whether the router bounded the request context.
type deadlinePriceService struct {
	hadDeadline bool
}

func (d *deadlinePriceService) GetPrices(ctx context.Context, symbols []string, _ models.Range) (map[string]*models.SymbolResult, error) {
	_, d.hadDeadline = ctx.Deadline()
	out := make(map[string]*models.SymbolResult, len(symbols))
	for _, s := range symbols {
		out[s] = nil
	}
	return out, nil
}

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &deadlinePriceService{}
	r := NewRouter(NewHandler(svc, &mockStatsService{}), 5*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices?symbols=AAPL,MSFT", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if !svc.hadDeadline {
		t.Fatalf("expected request context to carry a deadline")
	}

	var out map[string]map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out["prices"]) != 2 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestNewRouter_FetchStatsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&deadlinePriceService{}, &mockStatsService{}), time.Second)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/fetch-stats?symbol=AAPL", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
