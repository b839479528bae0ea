package component

import "context"

// HealthStatus is the coarse state a component reports to /readyz.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's entry in a readiness report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a part of the service with a lifecycle: the store, the HTTP
// server and the watch hub. Names must be unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop must return once ctx is done, even if shutdown is incomplete.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a component's row in the startup summary. An empty Name
// falls back to Component.Name and Port 0 means no listener.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable components appear in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is one HTTP route listed in the startup summary.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by components that serve HTTP routes.
type RouteProvider interface {
	Routes() []Route
}
