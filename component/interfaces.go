package component

import "context"

// HealthStatus is the coarse state reported by a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's entry in the /health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports name as up.
func Healthy(name string) Health {
	return Health{Name: name, Status: StatusHealthy}
}

// Unhealthy reports name as down with reason as the message.
func Unhealthy(name, reason string) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: reason}
}

// Component is a piece of infrastructure the Registry starts, probes and
// stops. Name must be unique within a registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself in the startup log.
type Description struct {
	Name    string // display name; Name() when empty
	Type    string // database, redis, server, telemetry
	Details string // e.g. "localhost:6379 db=0"
}

// Describable is implemented by components that summarize their
// configuration once started.
type Describable interface {
	Describe() Description
}
