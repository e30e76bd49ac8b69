package table

import (
	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// UserColumns are the sortable columns of the users table
var UserColumns = Columns[models.User]{
	"full_name":       func(u models.User) Value { return StringPtr(u.FullName) },
	"email":           func(u models.User) Value { return String(u.Email) },
	"created_at":      func(u models.User) Value { return TimePtr(u.CreatedAt.Ptr()) },
	"portfolio_count": func(u models.User) Value { return Int(u.PortfolioCount) },
	"total_value":     func(u models.User) Value { return Number(u.TotalValue) },
}

// UserSearchFields are matched by the users table search box
var UserSearchFields = []Field[models.User]{
	func(u models.User) string { return u.Email },
	func(u models.User) string {
		if u.FullName == nil {
			return ""
		}
		return *u.FullName
	},
}

// StockColumns are the sortable columns of the master data table
var StockColumns = Columns[models.Stock]{
	"symbol":        func(s models.Stock) Value { return String(s.Symbol) },
	"long_name":     func(s models.Stock) Value { return String(s.LongName) },
	"current_price": func(s models.Stock) Value { return NumberPtr(s.CurrentPrice) },
	"sector":        func(s models.Stock) Value { return StringPtr(s.Sector) },
	"industry":      func(s models.Stock) Value { return StringPtr(s.Industry) },
	"last_updated":  func(s models.Stock) Value { return TimePtr(s.LastUpdated.Ptr()) },
}
