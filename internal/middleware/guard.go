package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/portfolio-admin/internal/auth"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// unguarded paths never redirect; they still get the token attached
var unguardedPrefixes = []string{"/api/", "/static/"}

var unguardedPaths = map[string]bool{
	"/favicon.ico": true,
	"/healthz":     true,
}

func unguarded(path string) bool {
	if unguardedPaths[path] {
		return true
	}
	for _, p := range unguardedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RouteGuard keeps anonymous visitors on the login page and signed-in admins
// off it. The presence of the cookie is all it checks; the backend decides
// whether the token is still good. The token is threaded into the request
// context for outbound API calls.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.TokenFromRequest(c.Request)
		if ok {
			c.Request = c.Request.WithContext(auth.WithToken(c.Request.Context(), token))
		}

		path := c.Request.URL.Path
		if unguarded(path) {
			c.Next()
			return
		}

		onLogin := strings.HasPrefix(path, LoginPath)
		switch {
		case !ok && !onLogin:
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		case ok && onLogin:
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
			return
		}
		c.Next()
	}
}
