package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// Login exchanges admin credentials for a bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*models.AccessToken, error) {
	var res models.AccessToken
	err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/admin/auth/login",
		failure: "Login failed",
		body:    models.Credentials{Username: username, Password: password},
		form:    true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates another admin account
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/admin/auth/register",
		failure: "Registration failed",
		body:    req,
	}, nil)
}

// Me returns the profile of the admin owning the context's token
func (c *Client) Me(ctx context.Context) (*models.AdminProfile, error) {
	var res models.AdminProfile
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/auth/me",
		failure: "Failed to fetch profile",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var res models.DashboardStats
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/stats",
		failure: "Failed to fetch stats",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Growth(ctx context.Context) ([]models.GrowthPoint, error) {
	var res []models.GrowthPoint
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/growth",
		failure: "Failed to fetch growth data",
	}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Users(ctx context.Context, page Page) ([]models.User, error) {
	var res []models.User
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/users",
		failure: "Failed to fetch users",
		query:   page.withDefaults(),
	}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) UserDetail(ctx context.Context, id int) (*models.UserDetail, error) {
	var res models.UserDetail
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    fmt.Sprintf("/admin/users/%d", id),
		failure: "Failed to fetch user details",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Impersonate issues a token that signs into the end-user app as user id
func (c *Client) Impersonate(ctx context.Context, id int) (*models.AccessToken, error) {
	var res models.AccessToken
	if err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/admin/users/%d/impersonate", id),
		failure: "Failed to generate impersonation token.",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Chats(ctx context.Context, page Page) ([]models.ChatSummary, error) {
	var res []models.ChatSummary
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/chats",
		failure: "Failed to fetch chats",
		query:   page.withDefaults(),
	}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Referrals(ctx context.Context) (*models.ReferralStats, error) {
	var res models.ReferralStats
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/referrals",
		failure: "Failed to fetch referrals",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Analytics(ctx context.Context) (*models.Analytics, error) {
	var res models.Analytics
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/analytics",
		failure: "Failed to fetch analytics",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Stocks lists master data. Search is matched by the backend.
func (c *Client) Stocks(ctx context.Context, page Page) (*models.StockPage, error) {
	var res models.StockPage
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/stocks/",
		failure: "Failed to fetch stocks",
		query:   page.withDefaults(),
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateStock(ctx context.Context, symbol string, update models.StockUpdate) error {
	return c.call(ctx, request{
		method:  http.MethodPut,
		path:    "/admin/stocks/" + escape(symbol),
		failure: "Failed to update stock",
		body:    update,
	}, nil)
}

func (c *Client) RefreshStatus(ctx context.Context) (*models.RefreshStatus, error) {
	var res models.RefreshStatus
	if err := c.call(ctx, request{
		method:  http.MethodGet,
		path:    "/admin/stocks/refresh-status",
		failure: "Failed to fetch refresh status",
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SendNotification(ctx context.Context, req models.NotificationRequest) (*models.NotificationResult, error) {
	var res models.NotificationResult
	if err := c.call(ctx, request{
		method:  http.MethodPost,
		path:    "/admin/notifications",
		failure: "Failed to send notification",
		body:    req,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
