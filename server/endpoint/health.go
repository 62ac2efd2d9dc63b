package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// HealthReport is the body served on /health.
type HealthReport struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Timestamp  time.Time              `json:"timestamp"`
	Components []component.Health     `json:"components"`
}

// Healthy reports whether every component is healthy.
func (r HealthReport) Healthy() bool {
	return r.Status == component.StatusHealthy
}

// NewHealthReport folds component statuses into a single report.
func NewHealthReport(service string, components []component.Health) HealthReport {
	if components == nil {
		components = []component.Health{}
	}
	r := HealthReport{
		Status:     component.StatusHealthy,
		Service:    service,
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Components: components,
	}
	for _, h := range components {
		if h.Status == component.StatusUnhealthy {
			r.Status = component.StatusUnhealthy
			break
		}
	}
	return r
}

// Health serves the aggregated report; 503 when anything is down.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []component.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}
		report := NewHealthReport(serviceName, components)

		code := http.StatusOK
		if !report.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, report)
	}
}
