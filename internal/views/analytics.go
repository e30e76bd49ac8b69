package views

import (
	"strconv"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// Bar is one row of a horizontal bar chart
type Bar struct {
	Label   string
	Count   int
	Percent float64 // relative to the largest count
}

// Width is the inline CSS width of the bar
func (b Bar) Width() string {
	return Percent(b.Percent)
}

// Bars scales items against the largest count. With hideZero, rows without
// any count are left out but still take part in finding the maximum.
func Bars[T any](items []T, row func(T) (string, int), hideZero bool) []Bar {
	max := 0
	for _, it := range items {
		if _, n := row(it); n > max {
			max = n
		}
	}

	out := make([]Bar, 0, len(items))
	for _, it := range items {
		label, n := row(it)
		if hideZero && n == 0 {
			continue
		}
		b := Bar{Label: label, Count: n}
		if max > 0 {
			b.Percent = float64(n) / float64(max) * 100
		}
		out = append(out, b)
	}
	return out
}

// Peak returns the item with the highest count. On ties the earliest item
// wins. ok is false for an empty series.
func Peak[T any](items []T, count func(T) int) (peak T, ok bool) {
	for i, it := range items {
		if i == 0 || count(it) > count(peak) {
			peak = it
		}
	}
	return peak, len(items) > 0
}

// Analytics is the analytics page with its derived peaks and charts
type Analytics struct {
	Data        models.Analytics
	PeakDay     models.WeekdayCount
	HasPeakDay  bool
	PeakHour    models.HourCount
	HasPeakHour bool
	Weekdays    []Bar
	Hours       []Bar
	Months      []Bar
}

func NewAnalytics(a models.Analytics) Analytics {
	v := Analytics{Data: a}
	v.PeakDay, v.HasPeakDay = Peak(a.SignupsByWeekday, func(w models.WeekdayCount) int { return w.Count })
	v.PeakHour, v.HasPeakHour = Peak(a.SignupsByHour, func(h models.HourCount) int { return h.Count })

	v.Weekdays = Bars(a.SignupsByWeekday, func(w models.WeekdayCount) (string, int) {
		return w.Day, w.Count
	}, false)
	v.Hours = Bars(a.SignupsByHour, func(h models.HourCount) (string, int) {
		return HourLabel(h.Hour), h.Count
	}, true)
	v.Months = Bars(a.GrowthByMonth, func(m models.MonthCount) (string, int) {
		return m.Month, m.Count
	}, false)
	return v
}

// HourLabel renders an hour of day as 09:00
func HourLabel(hour models.Hour) string {
	s := strconv.Itoa(int(hour))
	if hour < 10 {
		s = "0" + s
	}
	return s + ":00"
}

// AvgMFValue is the average mutual fund holding in thousands
func (a Analytics) AvgMFValue() string {
	return Thousands(a.Data.PortfolioStats.AvgMFValue)
}
