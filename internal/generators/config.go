package generators

import (
	"errors"
	"fmt"
)

// GeneratorConfig holds configuration parameters for a column sequence
// generator: the size of the column space it generates over, the target
// sparsity of each produced pattern, the seed for deterministic reruns, and
// an optional noise fraction for generators that perturb a base sequence.
type GeneratorConfig struct {
	NumColumns     int                    // Size of the column space patterns are drawn from
	TargetSparsity float64                // Desired active-column fraction (0.01-0.10)
	Seed           uint64                 // Seeds the generator's own random source
	NoiseFraction  float64                // Fraction of active columns perturbed per step (0.0-1.0)
	CustomParams   map[string]interface{} // Generator-specific configuration parameters
}

// NewGeneratorConfig creates a configuration with HTM-compliant defaults.
func NewGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		NumColumns:     2048,
		TargetSparsity: 0.02,
		Seed:           42,
		NoiseFraction:  0.0,
		CustomParams:   make(map[string]interface{}),
	}
}

// SetParam sets a custom parameter value.
func (c *GeneratorConfig) SetParam(key string, value interface{}) {
	c.CustomParams[key] = value
}

// GetParam retrieves a custom parameter value.
func (c *GeneratorConfig) GetParam(key string) (interface{}, bool) {
	value, exists := c.CustomParams[key]
	return value, exists
}

// GetIntParam retrieves an int parameter with a default.
func (c *GeneratorConfig) GetIntParam(key string, defaultValue int) int {
	if value, exists := c.CustomParams[key]; exists {
		if i, ok := value.(int); ok {
			return i
		}
	}
	return defaultValue
}

// ValidateNumColumns checks that the column space is usable.
func (c *GeneratorConfig) ValidateNumColumns() error {
	if c.NumColumns <= 0 {
		return &ConfigurationError{Parameter: "num_columns", Value: c.NumColumns, Reason: "must be positive"}
	}
	return nil
}

// ValidateSparsity checks that target sparsity meets HTM requirements.
func (c *GeneratorConfig) ValidateSparsity() error {
	if c.TargetSparsity < 0.01 {
		return &ConfigurationError{Parameter: "target_sparsity", Value: c.TargetSparsity, Reason: "below HTM minimum of 1% (0.01)"}
	}
	if c.TargetSparsity > 0.10 {
		return &ConfigurationError{Parameter: "target_sparsity", Value: c.TargetSparsity, Reason: "above HTM maximum of 10% (0.10)"}
	}
	return nil
}

// ValidateNoiseFraction checks that the noise fraction is a valid ratio.
func (c *GeneratorConfig) ValidateNoiseFraction() error {
	if c.NoiseFraction < 0.0 || c.NoiseFraction > 1.0 {
		return &ConfigurationError{Parameter: "noise_fraction", Value: c.NoiseFraction, Reason: "must be in [0, 1]"}
	}
	return nil
}

// IsValid performs complete validation of the configuration.
func (c *GeneratorConfig) IsValid() error {
	if err := c.ValidateNumColumns(); err != nil {
		return err
	}
	if err := c.ValidateSparsity(); err != nil {
		return err
	}
	return c.ValidateNoiseFraction()
}

// CalculateActiveColumnCount returns the number of active columns a pattern
// generated under this configuration is expected to carry.
func (c *GeneratorConfig) CalculateActiveColumnCount() int {
	n := int(float64(c.NumColumns) * c.TargetSparsity)
	if n == 0 && c.TargetSparsity > 0 {
		n = 1
	}
	return n
}

// Clone creates a deep copy of the configuration.
func (c *GeneratorConfig) Clone() *GeneratorConfig {
	clone := &GeneratorConfig{
		NumColumns:     c.NumColumns,
		TargetSparsity: c.TargetSparsity,
		Seed:           c.Seed,
		NoiseFraction:  c.NoiseFraction,
		CustomParams:   make(map[string]interface{}, len(c.CustomParams)),
	}
	for k, v := range c.CustomParams {
		clone.CustomParams[k] = v
	}
	return clone
}

// String returns a string representation of the configuration.
func (c *GeneratorConfig) String() string {
	return fmt.Sprintf("GeneratorConfig(columns=%d, sparsity=%.3f, seed=%d, noise=%.3f)",
		c.NumColumns, c.TargetSparsity, c.Seed, c.NoiseFraction)
}

// ErrEmptyProgram is returned by FixedProgramGenerator when constructed
// with no steps.
var ErrEmptyProgram = errors.New("fixed program must contain at least one step")
