package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/observability"
)

var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger logs every request with method, path, status and duration
// at a level chosen by status class, and records request metrics. Probe
// paths are not logged.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Context(), c.Request.Method, route, status, duration)

		if quietPaths[c.Request.URL.Path] {
			return
		}
		fields := map[string]interface{}{
			logger.FieldMethod:   c.Request.Method,
			logger.FieldPath:     c.Request.URL.Path,
			logger.FieldStatus:   status,
			logger.FieldDuration: duration.Milliseconds(),
			logger.FieldClientIP: c.ClientIP(),
		}
		if claims, ok := claimsFrom(c); ok {
			fields[logger.FieldUserID] = claims.ID
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("Request completed", fields)
		case status >= 400:
			l.Warn("Request completed", fields)
		default:
			l.Debug("Request completed", fields)
		}
	}
}
