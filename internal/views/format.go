package views

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// Placeholder is shown for values the backend did not send
const Placeholder = "-"

var crore = decimal.NewFromInt(10000000)

// Rupees formats an amount with thousands separators
func Rupees(d decimal.Decimal) string {
	return "₹" + humanize.CommafWithDigits(d.Round(2).InexactFloat64(), 2)
}

// RupeesOrDash formats an optional amount
func RupeesOrDash(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return Rupees(*d)
}

// Crores formats large totals such as assets under management
func Crores(d decimal.Decimal) string {
	return "₹" + d.Div(crore).StringFixed(2) + " Cr"
}

// Thousands formats an amount as ₹12.3K
func Thousands(d decimal.Decimal) string {
	return "₹" + d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
}

// Quantity formats an optional quantity to two decimals
func Quantity(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return d.StringFixed(2)
}

// Price formats an optional unit price to two decimals
func Price(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return "₹" + d.StringFixed(2)
}

// Count formats a counter with thousands separators
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Date formats a calendar date
func Date(ts models.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return ts.Format("Jan 2, 2006")
}

// DateTime formats a timestamp down to the minute, in UTC
func DateTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return ts.UTC().Format("02 Jan 2006, 15:04")
}

// Ago formats a timestamp relative to now, e.g. "3 hours ago"
func Ago(ts models.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return humanize.Time(ts.Time)
}

// Percent formats a bar width for inline styles
func Percent(p float64) string {
	return humanize.FtoaWithDigits(p, 2) + "%"
}
