package dto

import (
	"encoding/json"
	"testing"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

func TestPricesResponse_NullForFailedSymbol(t *testing.T) {
	price := 12.5
	resp := PricesResponse{Prices: map[string]*models.SymbolResult{
		"AAPL": {LatestPrice: &price, History: []models.QuotePoint{{Time: 1000, Price: 12.5}}},
		"BAD":  nil,
	}}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out["prices"]["BAD"]) != "null" {
		t.Fatalf("expected null for failed symbol, got %s", out["prices"]["BAD"])
	}
	want := `{"latestPrice":12.5,"history":[{"time":1000,"price":12.5}]}`
	if string(out["prices"]["AAPL"]) != want {
		t.Fatalf("unexpected symbol body: %s", out["prices"]["AAPL"])
	}
}

func TestPricesResponse_Empty(t *testing.T) {
	b, err := json.Marshal(PricesResponse{Prices: map[string]*models.SymbolResult{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"prices":{}}` {
		t.Fatalf("unexpected body %s", b)
	}
}
