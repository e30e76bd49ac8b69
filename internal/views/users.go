package views

import (
	"github.com/google/go-querystring/query"
	"github.com/shopspring/decimal"

	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/table"
)

// ListParams is the query string of a searchable, sortable list page
type ListParams struct {
	Query string `form:"q" url:"q,omitempty"`
	Sort  string `form:"sort" url:"sort,omitempty"`
	Dir   string `form:"dir" url:"dir,omitempty"`
}

// Active returns the sort the params describe, nil when unsorted
func (p ListParams) Active() *table.Sort {
	return table.ParseSort(p.Sort, p.Dir)
}

// SortLink is the href of a column header: the page itself with the
// sort toggled on key and the search kept.
func SortLink(path string, p ListParams, key string) string {
	next := table.Toggle(p.Active(), key)
	v, err := query.Values(ListParams{Query: p.Query, Sort: next.Key, Dir: string(next.Direction)})
	if err != nil {
		return path
	}
	return path + "?" + v.Encode()
}

// SortIndicator marks the active column
func SortIndicator(p ListParams, key string) string {
	s := p.Active()
	if s == nil || s.Key != key {
		return ""
	}
	if s.Direction == table.Desc {
		return "↓"
	}
	return "↑"
}

// Users is the users table after search and sort
type Users struct {
	Params ListParams
	Rows   []models.User
	Loaded int
}

func NewUsers(users []models.User, p ListParams) Users {
	rows := table.Filter(users, p.Query, table.UserSearchFields...)
	return Users{
		Params: p,
		Rows:   table.Sorted(rows, table.UserColumns, p.Active()),
		Loaded: len(users),
	}
}

// TotalValue is blank for users without any holdings
func TotalValue(d decimal.Decimal) string {
	if !d.IsPositive() {
		return Placeholder
	}
	return Rupees(d)
}

// Stocks is the master data table after sort
type Stocks struct {
	Params ListParams
	Rows   []models.Stock
	Status *models.RefreshStatus
}

func NewStocks(stocks []models.Stock, p ListParams, status *models.RefreshStatus) Stocks {
	return Stocks{
		Params: p,
		Rows:   table.Sorted(stocks, table.StockColumns, p.Active()),
		Status: status,
	}
}
