package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/util"
)

const defaultMaxBodySize = 1 << 20 // 1MB

// BodySizeLimit restricts the request body to maxSize (e.g. "1MB", "512KB").
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
