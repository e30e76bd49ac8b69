package models

import "github.com/shopspring/decimal"

// Portfolio types
const (
	PortfolioEquity     = "EQUITY"
	PortfolioMutualFund = "MUTUAL_FUND"
)

// User is a row of the admin users list
type User struct {
	ID             int             `json:"id" validate:"required"`
	Email          string          `json:"email" validate:"required"`
	FullName       *string         `json:"full_name"`
	CreatedAt      Timestamp       `json:"created_at"`
	PortfolioCount int             `json:"portfolio_count" validate:"gte=0"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// DisplayName returns the full name or a placeholder when unset
func (u User) DisplayName(placeholder string) string {
	if u.FullName == nil || *u.FullName == "" {
		return placeholder
	}
	return *u.FullName
}

// Portfolio is one of a user's portfolios, grouped by asset type
type Portfolio struct {
	ID            int             `json:"id"`
	Type          string          `json:"type" validate:"oneof=EQUITY MUTUAL_FUND"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	InvestedValue decimal.Decimal `json:"invested_value"`
	Profit        decimal.Decimal `json:"profit"` // precomputed upstream
}

// Holding is a single position. Quantity, average price and LTP are absent
// for some instruments.
type Holding struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Quantity *decimal.Decimal `json:"quantity"`
	AvgPrice *decimal.Decimal `json:"avg_price"`
	LTP      *decimal.Decimal `json:"ltp"`
	Value    decimal.Decimal  `json:"value"`
}

// UserDetail is the aggregated per-user view composed by the backend
type UserDetail struct {
	User               User          `json:"user"`
	Portfolios         []Portfolio   `json:"portfolios" validate:"dive"`
	TopHoldings        []Holding     `json:"top_holdings" validate:"dive"`
	AllHoldings        []Holding     `json:"all_holdings" validate:"dive"`
	RecentTransactions []Transaction `json:"recent_transactions" validate:"dive"`
	Chats              []ChatSession `json:"chats" validate:"dive"`
}
