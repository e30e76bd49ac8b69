package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// recentActionsLimit is how many journal entries the settings page lists
const recentActionsLimit = 10

// NotificationsPage handles GET /notifications
func (h *Handler) NotificationsPage(c *gin.Context) {
	h.renderNotifications(c, http.StatusOK, forms.NotificationForm{Target: forms.TargetAll}, forms.Status{})
}

// SendNotification handles POST /notifications. Fields are kept when the
// send fails and cleared when it succeeds.
func (h *Handler) SendNotification(c *gin.Context) {
	var form forms.NotificationForm
	_ = c.ShouldBind(&form)
	ctx := c.Request.Context()

	req, err := form.Request()
	if err != nil {
		h.renderNotifications(c, http.StatusBadRequest, form, forms.Failed(err.Error()))
		return
	}

	var status forms.Status
	ran := h.withGate(ctx, "notifications", func() {
		res, err := h.api.SendNotification(ctx, req)
		h.record(ctx, audit.ActionNotify, notificationTarget(req), err)
		if err != nil {
			status = forms.Failed(apiclient.Message(err, forms.MsgNotificationFailed))
			return
		}
		message := res.Message
		if message == "" {
			message = forms.MsgNotificationSent
		}
		status = forms.Succeeded(message)
	})
	if !ran {
		status = forms.Failed(forms.MsgBusy)
	}

	if status.State == forms.Success {
		form = forms.NotificationForm{Target: forms.TargetAll}
	}
	h.renderNotifications(c, http.StatusOK, form, status)
}

func (h *Handler) renderNotifications(c *gin.Context, code int, form forms.NotificationForm, status forms.Status) {
	if form.Target == "" {
		form.Target = forms.TargetAll
	}
	page(c, code, "notifications.html", "notifications", gin.H{
		"Form":     form,
		"Status":   status,
		"TitleMax": forms.TitleMax,
		"BodyMax":  forms.BodyMax,
	})
}

func notificationTarget(req models.NotificationRequest) string {
	if req.SendToAll {
		return "all"
	}
	return "users:" + joinInts(req.UserIDs)
}

// Settings handles GET /settings
func (h *Handler) Settings(c *gin.Context) {
	h.renderSettings(c, http.StatusOK, forms.AdminForm{}, forms.Status{})
}

// CreateAdmin handles POST /settings/admins
func (h *Handler) CreateAdmin(c *gin.Context) {
	var form forms.AdminForm
	_ = c.ShouldBind(&form)
	ctx := c.Request.Context()

	if err := form.Validate(); err != nil {
		h.renderSettings(c, http.StatusBadRequest, form, forms.Failed(err.Error()))
		return
	}

	var status forms.Status
	ran := h.withGate(ctx, "create_admin", func() {
		err := h.api.Register(ctx, form.Request())
		h.record(ctx, audit.ActionCreateAdmin, form.Email, err)
		if err != nil {
			status = forms.Failed(forms.MsgAdminFailed)
			return
		}
		status = forms.Succeeded(forms.MsgAdminCreated)
	})
	if !ran {
		status = forms.Failed(forms.MsgBusy)
	}

	if status.State == forms.Success {
		form = forms.AdminForm{}
	}
	// the password is never echoed back
	form.Password = ""
	h.renderSettings(c, http.StatusOK, form, status)
}

func (h *Handler) renderSettings(c *gin.Context, code int, form forms.AdminForm, status forms.Status) {
	ctx := c.Request.Context()
	profile, err := h.api.Me(ctx)
	if err != nil {
		pageError(c, "settings", "Failed to load profile details. Please try refreshing or login again.", err)
		return
	}

	page(c, code, "settings.html", "settings", gin.H{
		"Profile": profile,
		"Form":    form,
		"Status":  status,
		"Actions": h.recentActions(ctx),
	})
}

func (h *Handler) recentActions(ctx context.Context) []audit.Entry {
	if h.journal == nil {
		return nil
	}
	entries, err := h.journal.Recent(ctx, recentActionsLimit)
	if err != nil {
		log.WithError(err).Warn("failed to read audit journal")
		return nil
	}
	return entries
}
