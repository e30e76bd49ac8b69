package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/atharvakonge/portfolio-admin/internal/auth"
)

var masks = []string{
	"password",
}

// RequestLogger logs every request through logrus. Posted form values are
// logged at debug level with sensitive fields masked.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		token, _ := auth.TokenFromContext(c.Request.Context())
		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"query":   c.Request.URL.RawQuery,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"ip":      c.ClientIP(),
			"admin":   auth.Fingerprint(token),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		if form := maskForm(c.Request.PostForm); form != "" {
			entry = entry.WithField("form", form)
		}

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request")
		case c.Writer.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// maskForm encodes posted values with masked fields replaced
func maskForm(form url.Values) string {
	if len(form) == 0 || !log.IsLevelEnabled(log.DebugLevel) {
		return ""
	}
	masked := make(url.Values, len(form))
	for k, v := range form {
		masked[k] = v
	}
	for _, m := range masks {
		if _, ok := masked[m]; ok {
			masked.Set(m, "xxx")
		}
	}
	return masked.Encode()
}
