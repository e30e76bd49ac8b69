package models

import "github.com/shopspring/decimal"

// DashboardStats is the headline counters payload of /admin/stats
type DashboardStats struct {
	TotalUsers      int             `json:"totalUsers" validate:"gte=0"`
	NewUsersToday   int             `json:"newUsersToday" validate:"gte=0"`
	DAU             int             `json:"dau" validate:"gte=0"`
	TotalPortfolios int             `json:"totalPortfolios" validate:"gte=0"`
	TotalAUM        decimal.Decimal `json:"totalAum"`
}

// GrowthPoint is one day of the user growth series
type GrowthPoint struct {
	Date  string `json:"date" validate:"required"`
	Users int    `json:"users" validate:"gte=0"`
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count" validate:"gte=0"`
}

type HourCount struct {
	Hour  Hour `json:"hour" validate:"gte=0,lte=23"`
	Count int `json:"count" validate:"gte=0"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count" validate:"gte=0"`
}

type UserStats struct {
	TotalUsers          int     `json:"total_users"`
	UsersWithPortfolios int     `json:"users_with_portfolios"`
	UsersWithAIChats    int     `json:"users_with_ai_chats"`
	ActivationRate      float64 `json:"activation_rate"`
}

type PortfolioStats struct {
	TotalPortfolios     int             `json:"total_portfolios"`
	TotalSchemes        int             `json:"total_schemes"`
	TotalEquityHoldings int             `json:"total_equity_holdings"`
	AvgMFValue          decimal.Decimal `json:"avg_mf_value"`
}

type AIStats struct {
	TotalSessions         int     `json:"total_sessions"`
	TotalMessages         int     `json:"total_messages"`
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
}

type RecentActivity struct {
	NewUsers7d int `json:"new_users_7d"`
	NewChats7d int `json:"new_chats_7d"`
}

// Analytics is the read-only analytics bundle
type Analytics struct {
	SignupsByWeekday []WeekdayCount `json:"signups_by_weekday" validate:"dive"`
	SignupsByHour    []HourCount    `json:"signups_by_hour" validate:"dive"`
	UserStats        UserStats      `json:"user_stats"`
	PortfolioStats   PortfolioStats `json:"portfolio_stats"`
	AIStats          AIStats        `json:"ai_stats"`
	RecentActivity   RecentActivity `json:"recent_activity"`
	GrowthByMonth    []MonthCount   `json:"growth_by_month" validate:"dive"`
}
