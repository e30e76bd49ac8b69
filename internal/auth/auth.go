package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName holds the opaque bearer token issued by the admin API
	CookieName = "admin_token"
	// CookieMaxAge is 70 days, matching the backend token lifetime
	CookieMaxAge = 6048000
)

type tokenKey struct{}

// SetToken stores a freshly issued token in the auth cookie
func SetToken(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, CookieMaxAge, "/", "", secure, true)
}

// ClearToken expires the auth cookie
func ClearToken(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// TokenFromRequest reads the auth cookie. An empty cookie counts as absent.
func TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// WithToken returns a context carrying the bearer token for outbound calls
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token threaded through ctx, if any
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Fingerprint identifies a token in logs and the audit journal without
// revealing it
func Fingerprint(token string) string {
	if token == "" {
		return "anonymous"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
