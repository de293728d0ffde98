package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatingSequenceGeneratorCyclesWithoutNoise(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 32
	cfg.TargetSparsity = 0.1
	cfg.Seed = 5
	cfg.SetParam("sequence", [][]int{{1, 2, 3}, {4, 5}, {6}})

	g := NewRepeatingSequenceGenerator()
	require.NoError(t, g.Configure(cfg))

	p0, err := g.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p0)

	p3, err := g.Generate(3)
	require.NoError(t, err)
	assert.Equal(t, p0, p3, "step 3 must replay step 0's pattern")
}

func TestRepeatingSequenceGeneratorAutoGeneratesBaseSequence(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 100
	cfg.TargetSparsity = 0.05
	cfg.Seed = 9
	cfg.SetParam("sequence_length", 4)

	g := NewRepeatingSequenceGenerator()
	require.NoError(t, g.Configure(cfg))

	meta := g.Metadata()
	assert.Equal(t, 4, meta.Capabilities["sequence_length"])

	p0, err := g.Generate(0)
	require.NoError(t, err)
	p4, err := g.Generate(4)
	require.NoError(t, err)
	assert.Equal(t, p0, p4)
}

func TestRepeatingSequenceGeneratorNoiseStaysInBudget(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 256
	cfg.TargetSparsity = 0.1
	cfg.Seed = 13
	cfg.NoiseFraction = 0.5
	base := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	cfg.SetParam("sequence", [][]int{base})

	g := NewRepeatingSequenceGenerator()
	require.NoError(t, g.Configure(cfg))

	noisy, err := g.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, len(base), len(noisy))

	overlap := 0
	baseSet := make(map[int]bool)
	for _, c := range base {
		baseSet[c] = true
	}
	for _, c := range noisy {
		if baseSet[c] {
			overlap++
		}
	}
	assert.GreaterOrEqual(t, overlap, len(base)-5)
}

func TestRepeatingSequenceGeneratorRejectsBadSequenceParam(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.SetParam("sequence", "not a sequence")

	g := NewRepeatingSequenceGenerator()
	assert.Error(t, g.Configure(cfg))
}

func TestRepeatingSequenceGeneratorRejectsEmptySequenceParam(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.SetParam("sequence", [][]int{})

	g := NewRepeatingSequenceGenerator()
	assert.Error(t, g.Configure(cfg))
}
