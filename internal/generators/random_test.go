package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSequenceGeneratorDeterministic(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 200
	cfg.TargetSparsity = 0.05
	cfg.Seed = 7

	g1 := NewRandomSequenceGenerator()
	require.NoError(t, g1.Configure(cfg))
	g2 := NewRandomSequenceGenerator()
	require.NoError(t, g2.Configure(cfg))

	for step := 0; step < 5; step++ {
		p1, err := g1.Generate(step)
		require.NoError(t, err)
		p2, err := g2.Generate(step)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
		assert.Equal(t, cfg.CalculateActiveColumnCount(), len(p1))
	}
}

func TestRandomSequenceGeneratorResetReproducesStream(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 200
	cfg.TargetSparsity = 0.05
	cfg.Seed = 11

	g := NewRandomSequenceGenerator()
	require.NoError(t, g.Configure(cfg))

	first, err := g.Generate(0)
	require.NoError(t, err)
	_, err = g.Generate(1)
	require.NoError(t, err)

	g.Reset()
	again, err := g.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestRandomSequenceGeneratorRequiresConfigure(t *testing.T) {
	g := NewRandomSequenceGenerator()
	_, err := g.Generate(0)
	assert.Error(t, err)
	assert.Error(t, g.Validate())
}

func TestRandomSequenceGeneratorColumnsInRange(t *testing.T) {
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 50
	cfg.TargetSparsity = 0.1
	cfg.Seed = 3

	g := NewRandomSequenceGenerator()
	require.NoError(t, g.Configure(cfg))
	pattern, err := g.Generate(0)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, col := range pattern {
		assert.GreaterOrEqual(t, col, 0)
		assert.Less(t, col, cfg.NumColumns)
		assert.False(t, seen[col], "duplicate column in pattern")
		seen[col] = true
	}
}
