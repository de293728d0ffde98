package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedProgramGeneratorReplaysExactSequence(t *testing.T) {
	program := [][]int{{0}, {1}, {2, 3}}
	g := NewFixedProgramGenerator(program)
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 32
	require.NoError(t, g.Configure(cfg))

	p0, err := g.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, p0)

	p1, err := g.Generate(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p1)

	p3, err := g.Generate(3)
	require.NoError(t, err)
	assert.Equal(t, p0, p3, "program must cycle")
}

func TestFixedProgramGeneratorRejectsEmptyProgram(t *testing.T) {
	g := NewFixedProgramGenerator(nil)
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 32
	assert.ErrorIs(t, g.Configure(cfg), ErrEmptyProgram)
}

func TestFixedProgramGeneratorRejectsOutOfRangeColumns(t *testing.T) {
	g := NewFixedProgramGenerator([][]int{{0, 40}})
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 32
	assert.Error(t, g.Configure(cfg))
}

func TestFixedProgramGeneratorRejectsNegativeStep(t *testing.T) {
	g := NewFixedProgramGenerator([][]int{{0}})
	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 32
	require.NoError(t, g.Configure(cfg))
	_, err := g.Generate(-1)
	assert.Error(t, err)
}

func TestFixedProgramGeneratorFromRegistryCustomParam(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	g, err := r.Create("fixed")
	require.NoError(t, err)

	cfg := *NewGeneratorConfig()
	cfg.NumColumns = 16
	cfg.SetParam("program", [][]int{{1, 2}})
	require.NoError(t, g.Configure(cfg))

	pattern, err := g.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, pattern)
}
