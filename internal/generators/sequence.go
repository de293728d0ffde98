package generators

import (
	"math/rand"
	"sort"
)

// RepeatingSequenceGenerator cycles through a fixed base sequence of
// patterns, optionally perturbing each emitted pattern with a fraction of
// its active columns swapped for random ones. This is the generator
// scenario 1 and scenario 3 of spec.md §8 rely on conceptually: a sequence
// that repeats often enough for the engine to learn, with noise exercising
// Phase C punishment and the predicted-but-wrong path.
type RepeatingSequenceGenerator struct {
	config   GeneratorConfig
	rng      *rand.Rand
	sequence [][]int
}

// NewRepeatingSequenceGenerator returns an unconfigured generator.
// Configure must be called before Generate; if the CustomParams key
// "sequence" (a [][]int) is not supplied at Configure time, a random base
// sequence of length CustomParams["sequence_length"] (default 5) is
// generated instead.
func NewRepeatingSequenceGenerator() ColumnSequenceGenerator {
	return &RepeatingSequenceGenerator{}
}

// Configure validates config, builds or adopts the base sequence, and
// seeds the noise generator.
func (g *RepeatingSequenceGenerator) Configure(config GeneratorConfig) error {
	if err := config.IsValid(); err != nil {
		return err
	}
	g.config = config
	g.rng = rand.New(rand.NewSource(int64(config.Seed)))

	if raw, ok := config.GetParam("sequence"); ok {
		seq, ok := raw.([][]int)
		if !ok {
			return &ConfigurationError{Parameter: "sequence", Value: raw, Reason: "must be [][]int"}
		}
		if len(seq) == 0 {
			return &ConfigurationError{Parameter: "sequence", Value: raw, Reason: "must contain at least one pattern"}
		}
		g.sequence = seq
		return nil
	}

	length := config.GetIntParam("sequence_length", 5)
	activeLen := config.CalculateActiveColumnCount()
	g.sequence = make([][]int, length)
	for i := range g.sequence {
		perm := g.rng.Perm(config.NumColumns)
		pattern := make([]int, activeLen)
		copy(pattern, perm[:activeLen])
		sort.Ints(pattern)
		g.sequence[i] = pattern
	}
	return nil
}

// Validate reports whether the generator has a usable base sequence.
func (g *RepeatingSequenceGenerator) Validate() error {
	if g.rng == nil {
		return &ValidationError{Component: "repeating_generator", Reason: "Configure must be called before use"}
	}
	if len(g.sequence) == 0 {
		return &ValidationError{Component: "sequence", Reason: "base sequence is empty"}
	}
	return g.config.IsValid()
}

// Generate returns the pattern for step mod len(sequence), with
// NoiseFraction of its active columns replaced by columns drawn uniformly
// from the rest of the column space.
func (g *RepeatingSequenceGenerator) Generate(step int) ([]int, error) {
	if len(g.sequence) == 0 {
		return nil, &GenerationError{GeneratorType: "repeating", Step: step, Reason: "generator not configured"}
	}
	if step < 0 {
		return nil, &GenerationError{GeneratorType: "repeating", Step: step, Reason: "step must be non-negative"}
	}

	base := g.sequence[step%len(g.sequence)]
	if g.config.NoiseFraction == 0 {
		out := append([]int(nil), base...)
		return out, nil
	}
	return g.applyNoise(base), nil
}

// applyNoise swaps a NoiseFraction share of base's active columns for
// columns not already present, using the generator's seeded random source.
func (g *RepeatingSequenceGenerator) applyNoise(base []int) []int {
	present := make(map[int]struct{}, len(base))
	for _, c := range base {
		present[c] = struct{}{}
	}

	flips := int(float64(len(base)) * g.config.NoiseFraction)
	out := append([]int(nil), base...)
	for i := 0; i < flips && len(out) > 0; i++ {
		idx := g.rng.Intn(len(out))
		delete(present, out[idx])

		var candidate int
		for {
			candidate = g.rng.Intn(g.config.NumColumns)
			if _, taken := present[candidate]; !taken {
				break
			}
		}
		out[idx] = candidate
		present[candidate] = struct{}{}
	}

	sort.Ints(out)
	return out
}

// Metadata describes this generator's characteristics.
func (g *RepeatingSequenceGenerator) Metadata() GeneratorMetadata {
	return GeneratorMetadata{
		Type:          "repeating",
		NumColumns:    g.config.NumColumns,
		Sparsity:      g.config.TargetSparsity,
		Deterministic: true,
		Capabilities: map[string]interface{}{
			"sequence_length": len(g.sequence),
			"noise_fraction":  g.config.NoiseFraction,
		},
	}
}

// Clone returns a new generator sharing the same base sequence and
// configuration but with an independently seeded noise stream.
func (g *RepeatingSequenceGenerator) Clone() ColumnSequenceGenerator {
	clone := &RepeatingSequenceGenerator{
		config:   g.config,
		sequence: g.sequence,
	}
	if g.rng != nil {
		clone.rng = rand.New(rand.NewSource(int64(g.config.Seed)))
	}
	return clone
}

// Reset reseeds the noise generator without discarding the base sequence,
// so Generate(0) again reproduces the first noisy variant deterministically.
func (g *RepeatingSequenceGenerator) Reset() {
	if g.rng != nil {
		g.rng = rand.New(rand.NewSource(int64(g.config.Seed)))
	}
}
