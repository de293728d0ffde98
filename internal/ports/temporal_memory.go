// Package ports defines the interfaces that connect the HTTP layer, the
// Temporal Memory service, and the middleware stack, following the
// teacher's hexagonal layering: handlers and routers depend only on these
// interfaces, never on concrete service or engine types.
package ports

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/htm-project/temporal-memory/internal/domain/htm"
)

// TemporalMemoryService defines the interface for operating a Temporal
// Memory engine instance over HTTP: one Compute step per request, plus the
// configuration, snapshot, metrics, and health surface spec.md §6 and
// SPEC_FULL.md §6 require.
type TemporalMemoryService interface {
	// Compute performs one Compute step against the service's engine
	// instance and returns the resulting activation state.
	Compute(ctx context.Context, request *htm.ComputeRequest) (*htm.ComputeResponse, error)

	// GetConfiguration returns the engine's current construction parameters.
	GetConfiguration(ctx context.Context) (*htm.TemporalMemoryConfig, error)

	// UpdateConfiguration replaces the engine instance with one built from
	// the given configuration, discarding all learned state.
	UpdateConfiguration(ctx context.Context, config *htm.TemporalMemoryConfig) error

	// ValidateConfiguration validates a configuration without applying it.
	ValidateConfiguration(ctx context.Context, config *htm.TemporalMemoryConfig) error

	// Reset clears the engine's previous-step activation state without
	// altering the learned graph, per spec.md §4.3.
	Reset(ctx context.Context) error

	// ExportSnapshot serializes the engine's full state via the versioned
	// binary format (spec.md §6).
	ExportSnapshot(ctx context.Context) ([]byte, error)

	// ImportSnapshot replaces the engine instance with one restored from a
	// previously exported snapshot.
	ImportSnapshot(ctx context.Context, data []byte) error

	// GetMetrics returns the running statistics accumulated over Compute
	// calls.
	GetMetrics(ctx context.Context) (*htm.TemporalMemoryMetrics, error)

	// ResetMetrics clears accumulated metrics without touching the engine.
	ResetMetrics(ctx context.Context) error

	// HealthCheck performs a health check on the service's engine instance.
	HealthCheck(ctx context.Context) error

	// GetInstanceInfo returns instance identification and summary info.
	GetInstanceInfo(ctx context.Context) map[string]interface{}
}

// MetricsCollector defines the interface for collecting HTTP-layer
// processing metrics, independent of the engine's own Metrics type.
type MetricsCollector interface {
	IncrementRequestCount()
	IncrementErrorCount()
	RecordProcessingTime(duration int64)
	RecordResponseTime(duration int64)
	SetConcurrentRequests(count int)
	GetMetrics() map[string]interface{}
	Reset()
}

// TemporalMemoryHandler defines the HTTP handlers for the Temporal Memory
// domain routes.
type TemporalMemoryHandler interface {
	Compute(c *gin.Context)
	GetConfig(c *gin.Context)
	UpdateConfig(c *gin.Context)
	ValidateConfig(c *gin.Context)
	Reset(c *gin.Context)
	ExportSnapshot(c *gin.Context)
	ImportSnapshot(c *gin.Context)
	GetMetrics(c *gin.Context)
	ResetMetrics(c *gin.Context)
	GetStatus(c *gin.Context)
	GetHealth(c *gin.Context)
}

// HealthHandler defines the interface for the global health endpoints.
type HealthHandler interface {
	HandleHealthCheck(ctx context.Context) (map[string]interface{}, error)
	CheckDependencies(ctx context.Context) map[string]bool
	GetSystemInfo() map[string]interface{}
}

// MetricsHandler defines the interface for the global metrics endpoint.
type MetricsHandler interface {
	HandleMetrics(ctx context.Context) (map[string]interface{}, error)
	GetPerformanceMetrics() map[string]interface{}
	GetRequestMetrics() map[string]interface{}
	GetSystemMetrics() map[string]interface{}
}

// Middleware defines the interface for HTTP middleware.
type Middleware interface {
	Apply() gin.HandlerFunc
}

// LoggingMiddleware defines the interface for request logging middleware.
type LoggingMiddleware interface {
	Middleware
	LogRequest(c *gin.Context)
	LogResponse(c *gin.Context, statusCode int, responseTime int64)
}

// ErrorMiddleware defines the interface for error handling middleware.
type ErrorMiddleware interface {
	Middleware
	HandleError(c *gin.Context, err error)
	HandlePanic(c *gin.Context, recovered interface{})
}

// MetricsMiddleware defines the interface for metrics collection middleware.
type MetricsMiddleware interface {
	Middleware
	RecordRequest(c *gin.Context)
	RecordResponse(c *gin.Context, statusCode int, responseTime int64)
}

// CORSMiddleware defines the interface for CORS handling middleware.
type CORSMiddleware interface {
	Middleware
	SetCORSHeaders(c *gin.Context)
	HandlePreflight(c *gin.Context)
}

// Router defines the interface for HTTP routing setup.
type Router interface {
	SetupRoutes(engine *gin.Engine) error
	RegisterAPIRoutes(group *gin.RouterGroup) error
	RegisterHealthRoutes(engine *gin.Engine) error
	RegisterMetricsRoutes(engine *gin.Engine) error
	ApplyMiddleware(engine *gin.Engine) error
}
