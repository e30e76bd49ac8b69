package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/auth"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/middleware"
)

// LoginPage handles GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	page(c, http.StatusOK, "login.html", "", gin.H{"Status": forms.Status{}, "Username": ""})
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)

	fail := func(message string) {
		page(c, http.StatusUnauthorized, "login.html", "", gin.H{
			"Status":   forms.Failed(message),
			"Username": form.Username,
		})
	}

	if err := form.Validate(); err != nil {
		fail(err.Error())
		return
	}

	ctx := c.Request.Context()
	res, err := h.api.Login(ctx, form.Username, form.Password)
	if err != nil {
		log.WithField("username", form.Username).Warn(apiclient.Format(err))
		h.record(ctx, audit.ActionLogin, form.Username, err)
		fail(forms.MsgLoginFailed)
		return
	}

	auth.SetToken(c, res.AccessToken, h.opts.CookieSecure)
	h.record(auth.WithToken(ctx, res.AccessToken), audit.ActionLogin, form.Username, nil)
	c.Redirect(http.StatusFound, middleware.HomePath)
}

// Logout handles POST /logout
func (h *Handler) Logout(c *gin.Context) {
	h.record(c.Request.Context(), audit.ActionLogout, "", nil)
	auth.ClearToken(c, h.opts.CookieSecure)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
