package models

import "github.com/shopspring/decimal"

// Transaction types
const (
	TransactionBuy  = "BUY"
	TransactionSell = "SELL"
)

// Transaction represents a buy/sell entry in a user's history
type Transaction struct {
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	Type      string          `json:"type" validate:"oneof=BUY SELL"`
	AssetType string          `json:"asset_type"`
	Amount    decimal.Decimal `json:"amount"`
}

// Sign is the display sign: money leaves on a buy, comes back on a sell
func (t Transaction) Sign() string {
	if t.Type == TransactionBuy {
		return "-"
	}
	return "+"
}
