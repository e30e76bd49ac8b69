package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/auth"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/middleware"
	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// API is the subset of the admin API the dashboard calls
type API interface {
	Login(ctx context.Context, username, password string) (*models.AccessToken, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Me(ctx context.Context) (*models.AdminProfile, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
	Growth(ctx context.Context) ([]models.GrowthPoint, error)
	Users(ctx context.Context, page apiclient.Page) ([]models.User, error)
	UserDetail(ctx context.Context, id int) (*models.UserDetail, error)
	Impersonate(ctx context.Context, id int) (*models.AccessToken, error)
	Chats(ctx context.Context, page apiclient.Page) ([]models.ChatSummary, error)
	Referrals(ctx context.Context) (*models.ReferralStats, error)
	Analytics(ctx context.Context) (*models.Analytics, error)
	Stocks(ctx context.Context, page apiclient.Page) (*models.StockPage, error)
	UpdateStock(ctx context.Context, symbol string, update models.StockUpdate) error
	RefreshStatus(ctx context.Context) (*models.RefreshStatus, error)
	SendNotification(ctx context.Context, req models.NotificationRequest) (*models.NotificationResult, error)
}

// Options tune the handlers; zero values fall back to sensible defaults
type Options struct {
	UserAppURL     string
	CookieSecure   bool
	SearchDebounce time.Duration
	StatusInterval time.Duration
}

// Handler serves the dashboard pages, form actions and JSON endpoints
type Handler struct {
	api     API
	pool    *loader.Pool
	gate    forms.Gate
	journal audit.Journal
	opts    Options
}

func New(api API, pool *loader.Pool, gate forms.Gate, journal audit.Journal, opts Options) *Handler {
	if gate == nil {
		gate = forms.NewMemoryGate()
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = 30 * time.Second
	}
	return &Handler{api: api, pool: pool, gate: gate, journal: journal, opts: opts}
}

// RegisterRoutes mounts every route on r. The route guard must already be
// installed on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET(middleware.LoginPath, h.LoginPage)
	r.POST(middleware.LoginPath, h.Login)
	r.POST("/logout", h.Logout)

	r.GET("/", h.Dashboard)
	r.GET("/users", h.Users)
	r.GET("/users/:id", h.UserDetail)
	r.POST("/users/:id/impersonate", h.Impersonate)
	r.GET("/chats", h.Chats)
	r.GET("/referrals", h.Referrals)
	r.GET("/analytics", h.Analytics)
	r.GET("/master-data", h.MasterData)
	r.POST("/master-data/:symbol", h.UpdateStock)
	r.GET("/notifications", h.NotificationsPage)
	r.POST("/notifications", h.SendNotification)
	r.GET("/settings", h.Settings)
	r.POST("/settings/admins", h.CreateAdmin)

	api := r.Group("/api")
	{
		api.GET("/users", h.ListUsers)
		api.GET("/stocks", h.ListStocks)
		api.GET("/stocks/refresh-status", h.GetRefreshStatus)
		api.GET("/ws/master-data", h.MasterDataSocket)
	}
}

// page renders a template inside the layout with the shared fields set
func page(c *gin.Context, status int, name, nav string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Nav"] = nav
	c.HTML(status, name, data)
}

// pageError renders a page-level failure. A rejected token is no different
// from any other failure; the admin signs out to get a fresh one.
func pageError(c *gin.Context, nav, message string, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Warn(apiclient.Format(err))
	page(c, http.StatusBadGateway, "error.html", nav, gin.H{"Message": message})
}

// jsonError answers a JSON route, passing an API 401 through
func jsonError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if apiclient.IsUnauthorized(err) {
		status = http.StatusUnauthorized
	}
	log.WithError(err).WithField("path", c.Request.URL.Path).Warn(apiclient.Format(err))
	c.JSON(status, gin.H{"error": apiclient.Message(err, "Request failed")})
}

// actor identifies the signed-in admin in logs, gate keys and the journal
func actor(ctx context.Context) string {
	token, _ := auth.TokenFromContext(ctx)
	return auth.Fingerprint(token)
}

// withGate runs fn unless the same admin already has this form in flight
func (h *Handler) withGate(ctx context.Context, form string, fn func()) bool {
	key := forms.GateKey(actor(ctx), form)
	ok, err := h.gate.TryAcquire(ctx, key)
	if err != nil {
		// an unreachable gate must not lock admins out
		log.WithError(err).Warn("submit gate unavailable")
		fn()
		return true
	}
	if !ok {
		return false
	}
	defer func() {
		if err := h.gate.Release(context.Background(), key); err != nil {
			log.WithError(err).Warn("submit gate release failed")
		}
	}()
	fn()
	return true
}

func (h *Handler) record(ctx context.Context, action, target string, err error) {
	e := audit.Entry{
		Actor:   actor(ctx),
		Action:  action,
		Target:  target,
		Success: err == nil,
	}
	if err != nil {
		e.Detail = apiclient.Format(err)
	}
	audit.Log(ctx, h.journal, e)
}
