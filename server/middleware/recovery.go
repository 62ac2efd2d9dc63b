package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the
// stack and answers with the internal error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithContext(c.Request.Context()).Error("Panic recovered", map[string]interface{}{
					logger.FieldError:    fmt.Sprintf("%v", rec),
					"stack":              string(debug.Stack()),
					logger.FieldPath:     c.Request.URL.Path,
					logger.FieldMethod:   c.Request.Method,
					logger.FieldClientIP: c.ClientIP(),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, errors.Internal(nil).ToResponse())
			}
		}()
		c.Next()
	}
}
