package htm

import (
	"encoding/base64"
	"fmt"

	"github.com/htm-project/temporal-memory/internal/cortical/temporal"
)

// TemporalMemoryConfig is the wire representation of temporal.Parameters.
// It carries go-playground/validator struct tags describing the accepted
// ranges. The handlers decode bodies with gin's ShouldBindJSON, which does
// not evaluate `validate` tags, so a malformed configuration is rejected by
// the engine's own Validate(), which the service layer calls before
// building an engine (the same check covers configs loaded from a snapshot
// or environment variables, which never pass through this struct).
type TemporalMemoryConfig struct {
	ColumnDimensions          []int   `json:"column_dimensions" validate:"required,min=1,dive,gt=0"`
	CellsPerColumn            int     `json:"cells_per_column" validate:"required,gt=0"`
	ActivationThreshold       int     `json:"activation_threshold" validate:"gte=0"`
	InitialPermanence         float64 `json:"initial_permanence" validate:"gte=0,lte=1"`
	ConnectedPermanence       float64 `json:"connected_permanence" validate:"gte=0,lte=1"`
	MinThreshold              int     `json:"min_threshold" validate:"gte=0"`
	MaxNewSynapseCount        int     `json:"max_new_synapse_count" validate:"gte=0"`
	PermanenceIncrement       float64 `json:"permanence_increment" validate:"gte=0"`
	PermanenceDecrement       float64 `json:"permanence_decrement" validate:"gte=0"`
	PredictedSegmentDecrement float64 `json:"predicted_segment_decrement" validate:"gte=0"`
	Seed                      uint64  `json:"seed"`
	MaxSegmentsPerCell        int     `json:"max_segments_per_cell" validate:"gte=0"`
	MaxSynapsesPerSegment     int     `json:"max_synapses_per_segment" validate:"gte=0"`
}

// ToParameters converts the wire DTO into the engine's construction type.
func (c *TemporalMemoryConfig) ToParameters() temporal.Parameters {
	return temporal.Parameters{
		ColumnDimensions:          append([]int(nil), c.ColumnDimensions...),
		CellsPerColumn:            c.CellsPerColumn,
		ActivationThreshold:       c.ActivationThreshold,
		InitialPermanence:         c.InitialPermanence,
		ConnectedPermanence:       c.ConnectedPermanence,
		MinThreshold:              c.MinThreshold,
		MaxNewSynapseCount:        c.MaxNewSynapseCount,
		PermanenceIncrement:       c.PermanenceIncrement,
		PermanenceDecrement:       c.PermanenceDecrement,
		PredictedSegmentDecrement: c.PredictedSegmentDecrement,
		Seed:                      c.Seed,
		MaxSegmentsPerCell:        c.MaxSegmentsPerCell,
		MaxSynapsesPerSegment:     c.MaxSynapsesPerSegment,
	}
}

// TemporalMemoryConfigFromParameters converts engine parameters back into
// the wire DTO, the inverse of ToParameters.
func TemporalMemoryConfigFromParameters(p temporal.Parameters) *TemporalMemoryConfig {
	return &TemporalMemoryConfig{
		ColumnDimensions:          append([]int(nil), p.ColumnDimensions...),
		CellsPerColumn:            p.CellsPerColumn,
		ActivationThreshold:       p.ActivationThreshold,
		InitialPermanence:         p.InitialPermanence,
		ConnectedPermanence:       p.ConnectedPermanence,
		MinThreshold:              p.MinThreshold,
		MaxNewSynapseCount:        p.MaxNewSynapseCount,
		PermanenceIncrement:       p.PermanenceIncrement,
		PermanenceDecrement:       p.PermanenceDecrement,
		PredictedSegmentDecrement: p.PredictedSegmentDecrement,
		Seed:                      p.Seed,
		MaxSegmentsPerCell:        p.MaxSegmentsPerCell,
		MaxSynapsesPerSegment:     p.MaxSynapsesPerSegment,
	}
}

// ComputeRequest is the body of POST /api/v1/temporal-memory/compute.
type ComputeRequest struct {
	ActiveColumns []int `json:"active_columns" validate:"required"`
	Learn         bool  `json:"learn"`
}

// ComputeResponse is the result of one Compute step.
type ComputeResponse struct {
	ActiveCells     []int `json:"active_cells"`
	WinnerCells     []int `json:"winner_cells"`
	PredictiveCells []int `json:"predictive_cells"`
	Step            int64 `json:"step"`
}

// SnapshotResponse wraps an exported engine snapshot. The binary format
// (internal/cortical/temporal.Write/ReadSnapshot) is opaque per spec.md §6,
// so it travels as base64 inside JSON, matching the teacher's JSON-first
// request/response convention.
type SnapshotResponse struct {
	Snapshot string `json:"snapshot"`
}

// SnapshotImportRequest is the body of POST .../snapshot.
type SnapshotImportRequest struct {
	Snapshot string `json:"snapshot" validate:"required"`
}

// DecodeSnapshot base64-decodes the request body into raw snapshot bytes.
func (r *SnapshotImportRequest) DecodeSnapshot() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 snapshot payload: %v", temporal.ErrSerialization, err)
	}
	return data, nil
}

// EncodeSnapshot base64-encodes raw snapshot bytes for the response body.
func EncodeSnapshot(data []byte) *SnapshotResponse {
	return &SnapshotResponse{Snapshot: base64.StdEncoding.EncodeToString(data)}
}

// TemporalMemoryMetrics is the wire representation of
// temporal.MetricsSummary.
type TemporalMemoryMetrics struct {
	StepsRecorded int64 `json:"steps_recorded"`

	ActiveCellMean    float64 `json:"active_cell_mean"`
	ActiveCellStdDev  float64 `json:"active_cell_stddev"`
	WinnerCellMean    float64 `json:"winner_cell_mean"`
	WinnerCellStdDev  float64 `json:"winner_cell_stddev"`
	SegmentCountMean  float64 `json:"segment_count_mean"`
	SegmentStdDev     float64 `json:"segment_count_stddev"`
	SynapseCountMean  float64 `json:"synapse_count_mean"`
	SynapseStdDev     float64 `json:"synapse_count_stddev"`
	PermanenceMean    float64 `json:"permanence_mean"`
	PermanenceStdDev  float64 `json:"permanence_stddev"`
}

// TemporalMemoryMetricsFromSummary converts the engine's metrics summary
// into its wire representation.
func TemporalMemoryMetricsFromSummary(s temporal.MetricsSummary) *TemporalMemoryMetrics {
	return &TemporalMemoryMetrics{
		StepsRecorded:    s.StepsRecorded,
		ActiveCellMean:   s.ActiveCellMean,
		ActiveCellStdDev: s.ActiveCellStdDev,
		WinnerCellMean:   s.WinnerCellMean,
		WinnerCellStdDev: s.WinnerCellStdDev,
		SegmentCountMean: s.SegmentCountMean,
		SegmentStdDev:    s.SegmentCountStdDev,
		SynapseCountMean: s.SynapseCountMean,
		SynapseStdDev:    s.SynapseCountStdDev,
		PermanenceMean:   s.PermanenceMean,
		PermanenceStdDev: s.PermanenceStdDev,
	}
}
