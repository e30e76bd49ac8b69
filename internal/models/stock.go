package models

import "github.com/shopspring/decimal"

// Refresh health values reported by the backend
const (
	RefreshHealthy = "Healthy"
	RefreshStale   = "Stale"
)

// Stock is a master data row, keyed by symbol
type Stock struct {
	Symbol       string           `json:"symbol" validate:"required"`
	LongName     string           `json:"long_name"`
	CurrentPrice *decimal.Decimal `json:"current_price"`
	Sector       *string          `json:"sector"`
	Industry     *string          `json:"industry"`
	LastUpdated  Timestamp        `json:"last_updated"`
}

// StockPage is a page of the stocks listing
type StockPage struct {
	Items []Stock `json:"items" validate:"dive"`
	Total int     `json:"total"`
}

// StockUpdate carries the editable subset of a stock. Nil fields are left
// untouched by the backend.
type StockUpdate struct {
	LongName     *string          `json:"long_name,omitempty"`
	CurrentPrice *decimal.Decimal `json:"current_price,omitempty"`
	Sector       *string          `json:"sector,omitempty"`
}

// Apply returns a copy of s with the update's fields merged in
func (u StockUpdate) Apply(s Stock) Stock {
	if u.LongName != nil {
		s.LongName = *u.LongName
	}
	if u.CurrentPrice != nil {
		p := *u.CurrentPrice
		s.CurrentPrice = &p
	}
	if u.Sector != nil {
		sector := *u.Sector
		s.Sector = &sector
	}
	return s
}

// RefreshStatus reports the health of the market data refresh job
type RefreshStatus struct {
	LastRefresh Timestamp `json:"last_refresh"`
	TotalStocks int       `json:"total_stocks" validate:"gte=0"`
	Status      string    `json:"status" validate:"oneof=Healthy Stale"`
}
