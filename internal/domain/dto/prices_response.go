package dto

import "github.com/guttosm/quotepulse/internal/domain/models"

// PricesResponse is the body returned by GET /api/v1/prices.
//
// Every requested symbol is a key; a symbol whose fetch failed maps to null.
type PricesResponse struct {
	Prices map[string]*models.SymbolResult `json:"prices"`
}
