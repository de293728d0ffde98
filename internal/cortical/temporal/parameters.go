// Package temporal implements the Temporal Memory algorithm: an online,
// unsupervised sequence learner over sparse distributed representations.
package temporal

import (
	"errors"
	"fmt"
)

// Sentinel error kinds per the error handling design. The HTTP layer
// translates these into domain APIError values; the engine itself never
// depends on the HTTP or domain packages.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("out of range")
	ErrNotFound         = errors.New("not found")
	ErrSerialization    = errors.New("serialization error")
)

// Parameters holds the construction-time configuration of a TemporalMemory
// instance. All fields are immutable after construction.
type Parameters struct {
	// ColumnDimensions is the shape of the column grid. Must be non-empty
	// with all-positive entries.
	ColumnDimensions []int

	// CellsPerColumn is the number of cells per column. Must be positive.
	CellsPerColumn int

	// ActivationThreshold is the connected-overlap threshold for a segment
	// to be considered active.
	ActivationThreshold int

	// InitialPermanence is the permanence assigned to newly grown synapses.
	InitialPermanence float64

	// ConnectedPermanence is the boundary between a disconnected and a
	// connected synapse.
	ConnectedPermanence float64

	// MinThreshold is the potential-overlap threshold for a segment to be
	// considered matching.
	MinThreshold int

	// MaxNewSynapseCount bounds the synapses grown per step per segment.
	MaxNewSynapseCount int

	// PermanenceIncrement is the Hebbian reinforcement step size.
	PermanenceIncrement float64

	// PermanenceDecrement is the Hebbian punishment step size.
	PermanenceDecrement float64

	// PredictedSegmentDecrement is the Phase C punishment amount for
	// matching segments in columns that did not activate. Zero disables
	// Phase C entirely.
	PredictedSegmentDecrement float64

	// Seed seeds the internal deterministic random source. Zero selects a
	// fixed, still-deterministic default seed (not system entropy).
	Seed uint64

	// MaxSegmentsPerCell enforces LRU segment eviction capacity. Zero means
	// unbounded.
	MaxSegmentsPerCell int

	// MaxSynapsesPerSegment enforces weakest-synapse recycle capacity.
	// Zero means unbounded.
	MaxSynapsesPerSegment int
}

// DefaultParameters returns the canonical defaults used throughout spec
// examples and tests: columnDimensions=[2048], cellsPerColumn=32,
// activationThreshold=13, initialPermanence=0.21, connectedPermanence=0.5,
// minThreshold=10, maxNewSynapseCount=20, increments=0.10/0.10,
// predictedSegmentDecrement=0.0, seed=42, maxSegmentsPerCell=255,
// maxSynapsesPerSegment=255.
func DefaultParameters() Parameters {
	return Parameters{
		ColumnDimensions:          []int{2048},
		CellsPerColumn:            32,
		ActivationThreshold:       13,
		InitialPermanence:         0.21,
		ConnectedPermanence:       0.5,
		MinThreshold:              10,
		MaxNewSynapseCount:        20,
		PermanenceIncrement:       0.10,
		PermanenceDecrement:       0.10,
		PredictedSegmentDecrement: 0.0,
		Seed:                      42,
		MaxSegmentsPerCell:        255,
		MaxSynapsesPerSegment:     255,
	}
}

// Validate checks structural validity of the parameters, per spec.md §4.5:
// construction fails with InvalidArgument when columnDimensions is empty or
// cellsPerColumn <= 0.
func (p Parameters) Validate() error {
	if len(p.ColumnDimensions) == 0 {
		return fmt.Errorf("%w: columnDimensions must be non-empty", ErrInvalidArgument)
	}
	for i, d := range p.ColumnDimensions {
		if d <= 0 {
			return fmt.Errorf("%w: columnDimensions[%d] must be positive, got %d", ErrInvalidArgument, i, d)
		}
	}
	if p.CellsPerColumn <= 0 {
		return fmt.Errorf("%w: cellsPerColumn must be positive, got %d", ErrInvalidArgument, p.CellsPerColumn)
	}
	if p.ActivationThreshold < 0 {
		return fmt.Errorf("%w: activationThreshold must be non-negative", ErrInvalidArgument)
	}
	if p.MinThreshold < 0 {
		return fmt.Errorf("%w: minThreshold must be non-negative", ErrInvalidArgument)
	}
	if p.InitialPermanence < 0 || p.InitialPermanence > 1 {
		return fmt.Errorf("%w: initialPermanence must be in [0,1]", ErrInvalidArgument)
	}
	if p.ConnectedPermanence < 0 || p.ConnectedPermanence > 1 {
		return fmt.Errorf("%w: connectedPermanence must be in [0,1]", ErrInvalidArgument)
	}
	if p.MaxNewSynapseCount < 0 {
		return fmt.Errorf("%w: maxNewSynapseCount must be non-negative", ErrInvalidArgument)
	}
	if p.PermanenceIncrement < 0 || p.PermanenceDecrement < 0 || p.PredictedSegmentDecrement < 0 {
		return fmt.Errorf("%w: permanence step sizes must be non-negative", ErrInvalidArgument)
	}
	if p.MaxSegmentsPerCell < 0 || p.MaxSynapsesPerSegment < 0 {
		return fmt.Errorf("%w: capacity limits must be non-negative", ErrInvalidArgument)
	}
	return nil
}

// numberOfColumns returns the product of ColumnDimensions.
func (p Parameters) numberOfColumns() int {
	n := 1
	for _, d := range p.ColumnDimensions {
		n *= d
	}
	return n
}

// numberOfCells returns numberOfColumns * CellsPerColumn.
func (p Parameters) numberOfCells() int {
	return p.numberOfColumns() * p.CellsPerColumn
}
