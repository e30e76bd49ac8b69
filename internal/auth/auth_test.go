package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetToken_CookieAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	SetToken(c, "tok-123", false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "tok-123", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 6048000, cookie.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, cookie.HttpOnly)
}

func TestClearToken(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)

	ClearToken(c, false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := TokenFromRequest(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
	_, ok = TokenFromRequest(r)
	assert.False(t, ok, "empty cookie is not a token")

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	token, ok := TokenFromRequest(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

func TestTokenContext(t *testing.T) {
	_, ok := TokenFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithToken(context.Background(), "abc")
	token, ok := TokenFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	ctx = WithToken(context.Background(), "")
	_, ok = TokenFromContext(ctx)
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "anonymous", Fingerprint(""))
	assert.Len(t, Fingerprint("abc"), 12)
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
}
