package views

import (
	"fmt"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// RecentChatsLimit is how many conversations the dashboard shows
const RecentChatsLimit = 6

// StatCard is one headline counter
type StatCard struct {
	Label   string
	Value   string
	Trend   string
	TrendUp bool
}

// DashboardCards builds the headline cards in display order
func DashboardCards(s models.DashboardStats) []StatCard {
	return []StatCard{
		{
			Label:   "Total Users",
			Value:   Count(s.TotalUsers),
			Trend:   fmt.Sprintf("+%d today", s.NewUsersToday),
			TrendUp: s.NewUsersToday > 0,
		},
		{
			Label:   "Daily Active Users",
			Value:   Count(s.DAU),
			Trend:   "Active in last 24h",
			TrendUp: true,
		},
		{
			Label: "Total Portfolios",
			Value: Count(s.TotalPortfolios),
		},
		{
			Label: "Total AUM",
			Value: Crores(s.TotalAUM),
		},
	}
}

// Dashboard is everything the overview page renders
type Dashboard struct {
	Cards       []StatCard
	Growth      []Bar
	RecentChats []models.ChatSummary
	Portfolios  int
}

func NewDashboard(stats models.DashboardStats, growth []models.GrowthPoint, chats []models.ChatSummary) Dashboard {
	return Dashboard{
		Cards: DashboardCards(stats),
		Growth: Bars(growth, func(p models.GrowthPoint) (string, int) {
			return p.Date, p.Users
		}, false),
		RecentChats: chats,
		Portfolios:  stats.TotalPortfolios,
	}
}
