package temporal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTripIsDeepEqualAndDeterministic(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	segID, err := tm.CreateSegment(4)
	require.NoError(t, err)
	for _, presyn := range []int{0, 1, 2, 3} {
		_, err := tm.CreateSynapse(segID, presyn, 0.5)
		require.NoError(t, err)
	}
	require.NoError(t, tm.Compute([]int{0}, true))

	var buf bytes.Buffer
	require.NoError(t, tm.Write(&buf))

	restored, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, tm.Equal(restored))

	require.NoError(t, tm.Compute([]int{1}, true))
	require.NoError(t, restored.Compute([]int{1}, true))
	assert.Equal(t, tm.GetActiveCells(), restored.GetActiveCells())
	assert.Equal(t, tm.GetPredictiveCells(), restored.GetPredictiveCells())
}

func TestSnapshot_RejectsTruncatedStream(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte{0x01, 0x02}))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestSnapshot_RejectsBadMagic(t *testing.T) {
	bad := make([]byte, 16)
	_, err := ReadSnapshot(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrSerialization)
}
