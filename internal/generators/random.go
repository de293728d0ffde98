package generators

import (
	"math/rand"
	"sort"
)

// RandomSequenceGenerator produces an independent random sparse pattern at
// every step: no two steps are correlated, which makes it useful for
// burst-path tests (spec.md §8 scenario 2) where the column set must never
// repeat a previously predicted pattern.
type RandomSequenceGenerator struct {
	config    GeneratorConfig
	rng       *rand.Rand
	activeLen int
}

// NewRandomSequenceGenerator returns an unconfigured random generator;
// Configure must be called before Generate.
func NewRandomSequenceGenerator() ColumnSequenceGenerator {
	return &RandomSequenceGenerator{}
}

// Configure validates and applies config, seeding the internal random
// source so repeated runs with the same seed produce the same stream.
func (g *RandomSequenceGenerator) Configure(config GeneratorConfig) error {
	if err := config.IsValid(); err != nil {
		return err
	}
	g.config = config
	g.rng = rand.New(rand.NewSource(int64(config.Seed)))
	g.activeLen = config.CalculateActiveColumnCount()
	return nil
}

// Validate reports whether the generator has been configured with a usable
// column space.
func (g *RandomSequenceGenerator) Validate() error {
	if g.rng == nil {
		return &ValidationError{Component: "random_generator", Reason: "Configure must be called before use"}
	}
	return g.config.IsValid()
}

// Generate returns a freshly sampled random set of active columns of size
// NumColumns*TargetSparsity. step is accepted for interface uniformity but
// does not affect the output.
func (g *RandomSequenceGenerator) Generate(step int) ([]int, error) {
	if g.rng == nil {
		return nil, &GenerationError{GeneratorType: "random", Step: step, Reason: "generator not configured"}
	}
	perm := g.rng.Perm(g.config.NumColumns)
	cols := make([]int, g.activeLen)
	copy(cols, perm[:g.activeLen])
	sort.Ints(cols)
	return cols, nil
}

// Metadata describes this generator's characteristics.
func (g *RandomSequenceGenerator) Metadata() GeneratorMetadata {
	return GeneratorMetadata{
		Type:          "random",
		NumColumns:    g.config.NumColumns,
		Sparsity:      g.config.TargetSparsity,
		Deterministic: true,
		Capabilities:  map[string]interface{}{"stateless": true},
	}
}

// Clone returns a new generator with the same configuration but an
// independent random stream starting from the same seed.
func (g *RandomSequenceGenerator) Clone() ColumnSequenceGenerator {
	clone := &RandomSequenceGenerator{}
	if g.rng != nil {
		_ = clone.Configure(g.config)
	}
	return clone
}

// Reset reseeds the generator so the next Generate call reproduces the
// first pattern of the stream.
func (g *RandomSequenceGenerator) Reset() {
	if g.rng != nil {
		g.rng = rand.New(rand.NewSource(int64(g.config.Seed)))
	}
}
