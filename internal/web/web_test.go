package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"login.html", "error.html", "dashboard.html", "users.html", "user_detail.html",
		"chats.html", "referrals.html", "analytics.html", "master_data.html",
		"notifications.html", "settings.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
	assert.NotNil(t, tmpl.Lookup("header"))
	assert.NotNil(t, tmpl.Lookup("status"))
}

func TestLoad_ServesStatic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, Load(r))

	for _, path := range []string{"/static/admin.css", "/static/master_data.js"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
