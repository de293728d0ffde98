package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/htm-project/temporal-memory/internal/domain/htm"
	"github.com/htm-project/temporal-memory/internal/ports"
)

// TemporalMemoryHandlerImpl implements ports.TemporalMemoryHandler,
// translating HTTP requests into ports.TemporalMemoryService calls and
// engine sentinel errors into htm.APIError responses, the same
// request/validate/call/respond shape as the teacher's SpatialPoolerHandler.
type TemporalMemoryHandlerImpl struct {
	service          ports.TemporalMemoryService
	metricsCollector ports.MetricsCollector
}

// NewTemporalMemoryHandler creates a new Temporal Memory HTTP handler.
func NewTemporalMemoryHandler(service ports.TemporalMemoryService, metricsCollector ports.MetricsCollector) ports.TemporalMemoryHandler {
	return &TemporalMemoryHandlerImpl{
		service:          service,
		metricsCollector: metricsCollector,
	}
}

// Compute handles POST /api/v1/temporal-memory/compute.
func (h *TemporalMemoryHandlerImpl) Compute(c *gin.Context) {
	start := time.Now()
	defer h.recordTiming(start)

	var request htm.ComputeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.writeError(c, http.StatusBadRequest, htm.NewValidationError("invalid request body", map[string]interface{}{"error": err.Error()}))
		return
	}

	result, err := h.service.Compute(c.Request.Context(), &request)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetConfig handles GET /api/v1/temporal-memory/config.
func (h *TemporalMemoryHandlerImpl) GetConfig(c *gin.Context) {
	config, err := h.service.GetConfiguration(c.Request.Context())
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// UpdateConfig handles PUT /api/v1/temporal-memory/config.
func (h *TemporalMemoryHandlerImpl) UpdateConfig(c *gin.Context) {
	var config htm.TemporalMemoryConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		h.writeError(c, http.StatusBadRequest, htm.NewValidationError("invalid configuration body", map[string]interface{}{"error": err.Error()}))
		return
	}

	if err := h.service.UpdateConfiguration(c.Request.Context(), &config); err != nil {
		h.writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "configuration updated successfully"})
}

// ValidateConfig handles POST /api/v1/temporal-memory/config/validate.
func (h *TemporalMemoryHandlerImpl) ValidateConfig(c *gin.Context) {
	var config htm.TemporalMemoryConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if err := h.service.ValidateConfiguration(c.Request.Context(), &config); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Reset handles POST /api/v1/temporal-memory/reset.
func (h *TemporalMemoryHandlerImpl) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reset successfully"})
}

// ExportSnapshot handles GET /api/v1/temporal-memory/snapshot.
func (h *TemporalMemoryHandlerImpl) ExportSnapshot(c *gin.Context) {
	data, err := h.service.ExportSnapshot(c.Request.Context())
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, htm.EncodeSnapshot(data))
}

// ImportSnapshot handles POST /api/v1/temporal-memory/snapshot.
func (h *TemporalMemoryHandlerImpl) ImportSnapshot(c *gin.Context) {
	var request htm.SnapshotImportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.writeError(c, http.StatusBadRequest, htm.NewValidationError("invalid snapshot body", map[string]interface{}{"error": err.Error()}))
		return
	}

	data, err := request.DecodeSnapshot()
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	if err := h.service.ImportSnapshot(c.Request.Context(), data); err != nil {
		h.writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "snapshot imported successfully"})
}

// GetMetrics handles GET /api/v1/temporal-memory/metrics.
func (h *TemporalMemoryHandlerImpl) GetMetrics(c *gin.Context) {
	metrics, err := h.service.GetMetrics(c.Request.Context())
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ResetMetrics handles POST /api/v1/temporal-memory/metrics/reset.
func (h *TemporalMemoryHandlerImpl) ResetMetrics(c *gin.Context) {
	if err := h.service.ResetMetrics(c.Request.Context()); err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "metrics reset successfully"})
}

// GetStatus handles GET /api/v1/temporal-memory/status.
func (h *TemporalMemoryHandlerImpl) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	info := h.service.GetInstanceInfo(ctx)

	config, err := h.service.GetConfiguration(ctx)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	metrics, err := h.service.GetMetrics(ctx)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}

	procStatus := htm.StatusSuccess
	var healthErr string
	if err := h.service.HealthCheck(ctx); err != nil {
		procStatus = htm.StatusFailed
		healthErr = err.Error()
	}

	status := gin.H{
		"status":        procStatus,
		"healthy":       procStatus.IsSuccessful(),
		"instance":      info,
		"configuration": config,
		"metrics":       metrics,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	if procStatus.IsFailure() {
		status["health_error"] = healthErr
	}

	c.JSON(http.StatusOK, status)
}

// GetHealth handles GET /api/v1/temporal-memory/health.
func (h *TemporalMemoryHandlerImpl) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.service.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": htm.StatusFailed, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": htm.StatusSuccess, "info": h.service.GetInstanceInfo(ctx)})
}

func (h *TemporalMemoryHandlerImpl) recordTiming(start time.Time) {
	if h.metricsCollector == nil {
		return
	}
	h.metricsCollector.RecordProcessingTime(time.Since(start).Milliseconds())
	h.metricsCollector.IncrementRequestCount()
}

func (h *TemporalMemoryHandlerImpl) writeError(c *gin.Context, status int, apiErr *htm.APIError) {
	if h.metricsCollector != nil {
		h.metricsCollector.IncrementErrorCount()
	}
	c.JSON(status, gin.H{"error": apiErr})
}

// writeEngineError translates a sentinel error returned by the service
// layer (which wraps the engine's own sentinel kinds) into an APIError
// with the correct HTTP status, per SPEC_FULL.md §7.
func (h *TemporalMemoryHandlerImpl) writeEngineError(c *gin.Context, err error) {
	apiErr := htm.NewEngineError(err)
	h.writeError(c, apiErr.GetHTTPStatusCode(), apiErr)
}
