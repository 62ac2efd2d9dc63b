package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/version"
)

var startedAt = time.Now()

type infoBody struct {
	Service string `json:"service"`
	version.Info
	Uptime string `json:"uptime"`
}

// Info serves the build identity and process uptime.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, infoBody{
			Service: serviceName,
			Info:    version.Get(),
			Uptime:  time.Since(startedAt).Round(time.Second).String(),
		})
	}
}
