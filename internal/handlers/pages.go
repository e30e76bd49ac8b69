package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/models"
	"github.com/atharvakonge/portfolio-admin/internal/views"
)

// Dashboard handles GET /
func (h *Handler) Dashboard(c *gin.Context) {
	var (
		stats  *models.DashboardStats
		growth []models.GrowthPoint
		chats  []models.ChatSummary
	)

	err := h.pool.All(c.Request.Context(),
		loader.Fetch{Name: "stats", Run: func(ctx context.Context) (err error) {
			stats, err = h.api.Stats(ctx)
			return err
		}},
		loader.Fetch{Name: "growth", Run: func(ctx context.Context) (err error) {
			growth, err = h.api.Growth(ctx)
			return err
		}},
		loader.Fetch{Name: "recent_chats", Run: func(ctx context.Context) (err error) {
			chats, err = h.api.Chats(ctx, apiclient.Page{Skip: 0, Limit: views.RecentChatsLimit})
			return err
		}},
	)
	if err != nil {
		pageError(c, "dashboard",
			"Error loading dashboard: "+apiclient.Message(err, "Unknown error")+". Ensure backend is running.", err)
		return
	}

	page(c, http.StatusOK, "dashboard.html", "dashboard", gin.H{
		"View": views.NewDashboard(*stats, growth, chats),
	})
}

// Users handles GET /users
func (h *Handler) Users(c *gin.Context) {
	var params views.ListParams
	_ = c.ShouldBindQuery(&params)

	users, err := h.api.Users(c.Request.Context(), apiclient.Page{Skip: 0, Limit: apiclient.DefaultLimit})
	if err != nil {
		pageError(c, "users", "Error loading users. Ensure backend is running.", err)
		return
	}

	page(c, http.StatusOK, "users.html", "users", gin.H{
		"View": views.NewUsers(users, params),
	})
}

// UserDetail handles GET /users/:id
func (h *Handler) UserDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		page(c, http.StatusNotFound, "error.html", "users", gin.H{
			"Title":   "Error loading user details",
			"Message": "Invalid user id",
		})
		return
	}

	detail, err := h.api.UserDetail(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("user_id", id).Warn(apiclient.Format(err))
		page(c, http.StatusBadGateway, "error.html", "users", gin.H{
			"Title":   "Error loading user details",
			"Message": apiclient.Message(err, "Unknown error"),
		})
		return
	}

	page(c, http.StatusOK, "user_detail.html", "users", gin.H{
		"View": views.NewUserDetail(*detail, c.Query("tab"), c.Query("type"), c.Query("chat")),
	})
}

// Impersonate handles POST /users/:id/impersonate. The admin is handed off
// to the end-user app signed in as the user.
func (h *Handler) Impersonate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		page(c, http.StatusBadRequest, "error.html", "users", gin.H{"Message": forms.MsgImpersonateFailed})
		return
	}

	ctx := c.Request.Context()
	res, err := h.api.Impersonate(ctx, id)
	h.record(ctx, audit.ActionImpersonate, strconv.Itoa(id), err)
	if err != nil {
		pageError(c, "users", forms.MsgImpersonateFailed, err)
		return
	}

	c.Redirect(http.StatusFound, ImpersonationURL(h.opts.UserAppURL, res.AccessToken))
}

// ImpersonationURL is where the end-user app accepts an impersonation token
func ImpersonationURL(userAppURL, token string) string {
	return userAppURL + "/login?impersonate_token=" + url.QueryEscape(token)
}

// Chats handles GET /chats
func (h *Handler) Chats(c *gin.Context) {
	chats, err := h.api.Chats(c.Request.Context(), apiclient.Page{Skip: 0, Limit: apiclient.DefaultLimit})
	if err != nil {
		pageError(c, "chats", "Error loading chats. "+apiclient.Message(err, "Unknown error"), err)
		return
	}

	page(c, http.StatusOK, "chats.html", "chats", gin.H{"Chats": chats})
}

// Referrals handles GET /referrals
func (h *Handler) Referrals(c *gin.Context) {
	stats, err := h.api.Referrals(c.Request.Context())
	if err != nil {
		pageError(c, "referrals", "Error loading referrals. Ensure backend is running.", err)
		return
	}

	page(c, http.StatusOK, "referrals.html", "referrals", gin.H{"Stats": stats})
}

// Analytics handles GET /analytics
func (h *Handler) Analytics(c *gin.Context) {
	data, err := h.api.Analytics(c.Request.Context())
	if err != nil {
		pageError(c, "analytics", "Error loading analytics. Ensure backend is running.", err)
		return
	}

	page(c, http.StatusOK, "analytics.html", "analytics", gin.H{
		"View": views.NewAnalytics(*data),
	})
}
