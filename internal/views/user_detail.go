package views

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// Tabs of the user detail page
const (
	TabOverview = "overview"
	TabHoldings = "holdings"
	TabChats    = "chats"
)

// HoldingsAll shows every holding regardless of type
const HoldingsAll = "ALL"

// HoldingTypes are the filter buttons of the holdings tab, in order
var HoldingTypes = []string{HoldingsAll, models.PortfolioEquity, models.PortfolioMutualFund}

// Allocation splits current value between equity and mutual funds
type Allocation struct {
	Equity     decimal.Decimal
	MutualFund decimal.Decimal
}

// UserDetail is the per-user page with its derived totals
type UserDetail struct {
	models.UserDetail

	Tab           string
	HoldingType   string
	Holdings      []models.Holding
	TotalInvested decimal.Decimal
	TotalProfit   decimal.Decimal
	Allocation    Allocation
	ActiveChat    *models.ChatSession
}

// NewUserDetail derives the page from the backend payload and the query
// parameters tab, type and chat. Unknown tabs and types fall back to the
// defaults; without a chat parameter the first conversation is selected.
func NewUserDetail(d models.UserDetail, tab, holdingType, chat string) UserDetail {
	v := UserDetail{
		UserDetail:  d,
		Tab:         parseTab(tab),
		HoldingType: parseHoldingType(holdingType),
	}

	for _, p := range d.Portfolios {
		v.TotalInvested = v.TotalInvested.Add(p.InvestedValue)
		switch p.Type {
		case models.PortfolioEquity:
			v.Allocation.Equity = v.Allocation.Equity.Add(p.CurrentValue)
		case models.PortfolioMutualFund:
			v.Allocation.MutualFund = v.Allocation.MutualFund.Add(p.CurrentValue)
		}
	}
	v.TotalProfit = d.User.TotalValue.Sub(v.TotalInvested)

	v.Holdings = make([]models.Holding, 0, len(d.AllHoldings))
	for _, h := range d.AllHoldings {
		if v.HoldingType == HoldingsAll || h.Type == v.HoldingType {
			v.Holdings = append(v.Holdings, h)
		}
	}

	v.ActiveChat = selectChat(d.Chats, chat)
	return v
}

// IsProfit reports whether the user is up overall; break-even counts as profit
func (v UserDetail) IsProfit() bool {
	return !v.TotalProfit.IsNegative()
}

// ShowAllocation hides the allocation chart for empty accounts
func (v UserDetail) ShowAllocation() bool {
	return v.User.TotalValue.IsPositive()
}

func parseTab(tab string) string {
	switch tab {
	case TabHoldings, TabChats:
		return tab
	}
	return TabOverview
}

func parseHoldingType(t string) string {
	switch t {
	case models.PortfolioEquity, models.PortfolioMutualFund:
		return t
	}
	return HoldingsAll
}

func selectChat(chats []models.ChatSession, param string) *models.ChatSession {
	if len(chats) == 0 {
		return nil
	}
	if param == "" {
		return &chats[0]
	}
	id, err := strconv.Atoi(param)
	if err != nil {
		return nil
	}
	for i := range chats {
		if chats[i].ID == id {
			return &chats[i]
		}
	}
	return nil
}
