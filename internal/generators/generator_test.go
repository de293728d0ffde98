package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorConfigValidation(t *testing.T) {
	cfg := NewGeneratorConfig()
	require.NoError(t, cfg.IsValid())

	cfg.NumColumns = 0
	assert.Error(t, cfg.IsValid())

	cfg = NewGeneratorConfig()
	cfg.TargetSparsity = 0.5
	assert.Error(t, cfg.IsValid())

	cfg = NewGeneratorConfig()
	cfg.NoiseFraction = 1.5
	assert.Error(t, cfg.IsValid())
}

func TestGeneratorConfigCalculateActiveColumnCount(t *testing.T) {
	cfg := NewGeneratorConfig()
	cfg.NumColumns = 1000
	cfg.TargetSparsity = 0.02
	assert.Equal(t, 20, cfg.CalculateActiveColumnCount())
}

func TestRegistryRegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("random", NewRandomSequenceGenerator))
	assert.True(t, r.IsRegistered("random"))
	assert.Equal(t, []string{"random"}, r.List())
	assert.Equal(t, 1, r.Count())

	gen, err := r.Create("random")
	require.NoError(t, err)
	assert.NotNil(t, gen)

	_, err = r.Create("nonexistent")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateAndEmpty(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("random", NewRandomSequenceGenerator))
	assert.Error(t, r.Register("random", NewRandomSequenceGenerator))
	assert.Error(t, r.Register("", NewRandomSequenceGenerator))
	assert.Error(t, r.Register("x", nil))
}

func TestRegistryUnregisterAndClear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("random", NewRandomSequenceGenerator))
	require.NoError(t, r.Unregister("random"))
	assert.False(t, r.IsRegistered("random"))
	assert.Error(t, r.Unregister("random"))

	require.NoError(t, r.Register("random", NewRandomSequenceGenerator))
	r.Clear()
	assert.Equal(t, 0, r.Count())
}

func TestGlobalRegistryHasBuiltins(t *testing.T) {
	reg := GetGlobalRegistry()
	assert.True(t, reg.IsRegistered("random"))
	assert.True(t, reg.IsRegistered("repeating"))
	assert.True(t, reg.IsRegistered("fixed"))
}
