// Package generators adapts the teacher's internal/sensors encoder registry
// into a registry of column sequence generators: the pattern/sequence
// generator spec.md §1 names as an external collaborator, out of the core
// engine's scope but expected to exist behind a clean interface for tests
// and demos. Where a sensor encoded external input into an SDR, a generator
// here produces the active-column SDR directly, step by step, for feeding
// into a TemporalMemory's Compute loop.
package generators

import "fmt"

// ColumnSequenceGenerator defines the contract for all sequence generator
// implementations. Generators may carry state across a run (Random and
// RepeatingSequence advance a seeded random source; FixedProgram depends
// only on the step argument), so Reset restores a generator to its initial
// state without needing to reconstruct it.
type ColumnSequenceGenerator interface {
	// Generate returns the active column indices for the given step.
	// Implementations that ignore step (e.g. pure random streams) still
	// accept it so callers have one uniform call shape across generators.
	Generate(step int) ([]int, error)

	// Configure sets generation parameters and validates them. Must be
	// called before the first Generate call.
	Configure(config GeneratorConfig) error

	// Validate checks if the generator's current configuration is valid.
	Validate() error

	// Metadata returns generator characteristics for introspection.
	Metadata() GeneratorMetadata

	// Clone creates a new generator instance with the same configuration.
	Clone() ColumnSequenceGenerator

	// Reset restores the generator to its initial position/state without
	// discarding its configuration.
	Reset()
}

// GeneratorMetadata describes a generator's characteristics.
type GeneratorMetadata struct {
	Type          string                 // Generator type identifier ("random", "repeating", "fixed")
	NumColumns    int                    // Configured column space size
	Sparsity      float64                // Target sparsity
	Deterministic bool                   // Whether the same seed reproduces the same stream
	Capabilities  map[string]interface{} // Type-specific capabilities
}

// GeneratorFactory is a function type for creating generator instances.
type GeneratorFactory func() ColumnSequenceGenerator

// GenerationError represents an error raised while producing a pattern.
type GenerationError struct {
	GeneratorType string
	Step          int
	Reason        string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error (%s, step %d): %s", e.GeneratorType, e.Step, e.Reason)
}

// ConfigurationError represents an error during generator configuration.
type ConfigurationError struct {
	Parameter string
	Value     interface{}
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return "configuration error for " + e.Parameter + ": " + e.Reason
}

// ValidationError represents an error during generator validation.
type ValidationError struct {
	Component string
	Reason    string
}

func (e *ValidationError) Error() string {
	return "validation error in " + e.Component + ": " + e.Reason
}
