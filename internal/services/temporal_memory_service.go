// Package services implements the business-logic layer between the HTTP
// handlers and the Temporal Memory engine, following the teacher's
// spatialPoolingService pattern: a mutex-guarded wrapper around one engine
// instance, with configuration replace-on-structural-change semantics.
package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/htm-project/temporal-memory/internal/cortical/temporal"
	"github.com/htm-project/temporal-memory/internal/domain/htm"
	"github.com/htm-project/temporal-memory/internal/ports"
)

// temporalMemoryService implements ports.TemporalMemoryService around a
// single engine instance. The engine itself (spec.md §5) is explicitly not
// safe for concurrent Compute calls; this mutex serializes concurrent HTTP
// requests against the one instance, it does not make a single Compute
// call concurrent.
type temporalMemoryService struct {
	mu         sync.RWMutex
	engine     *temporal.TemporalMemory
	metrics    *temporal.Metrics
	config     temporal.Parameters
	instanceID string
	createdAt  time.Time
	lastStepAt time.Time
	step       int64
}

// NewTemporalMemoryService constructs a service around a freshly built
// engine. A nil config falls back to temporal.DefaultParameters().
func NewTemporalMemoryService(config *temporal.Parameters) (ports.TemporalMemoryService, error) {
	params := temporal.DefaultParameters()
	if config != nil {
		params = *config
	}

	engine, err := temporal.NewTemporalMemory(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal memory engine: %w", err)
	}

	return &temporalMemoryService{
		engine:     engine,
		metrics:    temporal.NewMetrics(),
		config:     params,
		instanceID: uuid.New().String(),
		createdAt:  time.Now(),
	}, nil
}

// Compute performs one Compute step and returns the resulting activation
// state, per spec.md §4.3.
func (s *temporalMemoryService) Compute(ctx context.Context, request *htm.ComputeRequest) (*htm.ComputeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := s.engine.Compute(request.ActiveColumns, request.Learn); err != nil {
		return nil, fmt.Errorf("compute failed: %w", err)
	}
	s.metrics.RecordStep(s.engine)
	s.lastStepAt = time.Now()
	s.step++

	return &htm.ComputeResponse{
		ActiveCells:     s.engine.GetActiveCells(),
		WinnerCells:     s.engine.GetWinnerCells(),
		PredictiveCells: s.engine.GetPredictiveCells(),
		Step:            s.step,
	}, nil
}

// GetConfiguration returns the engine's current construction parameters.
func (s *temporalMemoryService) GetConfiguration(ctx context.Context) (*htm.TemporalMemoryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return htm.TemporalMemoryConfigFromParameters(s.config), nil
}

// UpdateConfiguration rebuilds the engine instance from new parameters,
// discarding all previously learned state — analogous to the teacher's
// requiresEngineRecreation path, except Temporal Memory's parameters are
// always structural (there is no non-structural subset to patch in place).
func (s *temporalMemoryService) UpdateConfiguration(ctx context.Context, config *htm.TemporalMemoryConfig) error {
	params := config.ToParameters()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	engine, err := temporal.NewTemporalMemory(params)
	if err != nil {
		return fmt.Errorf("failed to create new temporal memory engine: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine
	s.metrics = temporal.NewMetrics()
	s.config = params
	s.step = 0
	return nil
}

// ValidateConfiguration validates a configuration without applying it.
func (s *temporalMemoryService) ValidateConfiguration(ctx context.Context, config *htm.TemporalMemoryConfig) error {
	return config.ToParameters().Validate()
}

// Reset clears the engine's previous-step activation state, per spec.md §4.3.
func (s *temporalMemoryService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Reset()
	return nil
}

// ExportSnapshot serializes the engine's full state, per spec.md §6.
func (s *temporalMemoryService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf bytes.Buffer
	if err := s.engine.Write(&buf); err != nil {
		return nil, fmt.Errorf("snapshot export failed: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportSnapshot replaces the engine instance with one restored from data.
func (s *temporalMemoryService) ImportSnapshot(ctx context.Context, data []byte) error {
	engine, err := temporal.ReadSnapshot(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("snapshot import failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine
	s.metrics = temporal.NewMetrics()
	s.config = engine.Parameters()
	s.step = 0
	return nil
}

// GetMetrics returns the running statistics accumulated over Compute calls.
func (s *temporalMemoryService) GetMetrics(ctx context.Context) (*htm.TemporalMemoryMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return htm.TemporalMemoryMetricsFromSummary(s.metrics.Snapshot()), nil
}

// ResetMetrics clears accumulated metrics without touching the engine.
func (s *temporalMemoryService) ResetMetrics(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Reset()
	return nil
}

// HealthCheck exercises the engine with a harmless no-learn compute call
// against column 0, mirroring the teacher's health-check-via-test-input
// pattern in spatialPoolingService.HealthCheck. The probe runs on a copy of
// the engine restored from a snapshot, so the live engine's graph,
// previous-step cell sets, random source and step counter are untouched.
func (s *temporalMemoryService) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return fmt.Errorf("temporal memory engine is not initialized")
	}
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	var buf bytes.Buffer
	if err := s.engine.Write(&buf); err != nil {
		return fmt.Errorf("engine health probe failed: %w", err)
	}
	probe, err := temporal.ReadSnapshot(&buf)
	if err != nil {
		return fmt.Errorf("engine health probe failed: %w", err)
	}
	if err := probe.Compute([]int{0}, false); err != nil {
		return fmt.Errorf("engine health probe failed: %w", err)
	}
	return nil
}

// GetInstanceInfo returns instance identification and summary info.
func (s *temporalMemoryService) GetInstanceInfo(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"instance_id":      s.instanceID,
		"created_at":       s.createdAt,
		"last_step_at":     s.lastStepAt,
		"uptime_seconds":   time.Since(s.createdAt).Seconds(),
		"num_segments":     s.engine.NumSegments(),
		"num_synapses":     s.engine.NumSynapses(),
		"column_dimensions": s.config.ColumnDimensions,
		"cells_per_column":  s.config.CellsPerColumn,
	}
}
