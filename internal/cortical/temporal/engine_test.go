package temporal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioParameters() Parameters {
	return Parameters{
		ColumnDimensions:          []int{32},
		CellsPerColumn:            4,
		ActivationThreshold:       3,
		InitialPermanence:         0.21,
		ConnectedPermanence:       0.5,
		MinThreshold:              2,
		MaxNewSynapseCount:        3,
		PermanenceIncrement:       0.10,
		PermanenceDecrement:       0.10,
		PredictedSegmentDecrement: 0.0,
		Seed:                      42,
		MaxSegmentsPerCell:        255,
		MaxSynapsesPerSegment:     255,
	}
}

// Scenario 1: a correctly predicted segment activates exactly the
// predicted cell, and is later confirmed by a column-activation compute.
func TestCompute_CorrectPredictionActivatesPredictedCell(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	segID, err := tm.CreateSegment(4)
	require.NoError(t, err)
	for _, presyn := range []int{0, 1, 2, 3} {
		_, err := tm.CreateSynapse(segID, presyn, 0.5)
		require.NoError(t, err)
	}

	require.NoError(t, tm.Compute([]int{0}, true))
	assert.Equal(t, []int{4}, tm.GetPredictiveCells())

	require.NoError(t, tm.Compute([]int{1}, true))
	assert.Equal(t, []int{4}, tm.GetActiveCells())
}

// Scenario 2: an unpredicted column bursts — every cell in it activates.
func TestCompute_BurstOnUnpredictedColumn(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	require.NoError(t, tm.Compute([]int{0}, true))
	assert.Equal(t, []int{0, 1, 2, 3}, tm.GetActiveCells())
}

// Scenario 3: reinforcement and punishment reach the exact magnitudes
// spec.md specifies.
func TestCompute_ReinforcementMagnitudes(t *testing.T) {
	params := scenarioParameters()
	params.InitialPermanence = 0.2
	params.PermanenceIncrement = 0.10
	params.PermanenceDecrement = 0.08
	tm, err := NewTemporalMemory(params)
	require.NoError(t, err)

	segID, err := tm.CreateSegment(5)
	require.NoError(t, err)
	for _, presyn := range []int{0, 1, 2} {
		_, err := tm.CreateSynapse(segID, presyn, 0.5)
		require.NoError(t, err)
	}
	inactiveSynID, err := tm.CreateSynapse(segID, 81, 0.5)
	require.NoError(t, err)

	require.NoError(t, tm.Compute([]int{0}, true))
	require.NoError(t, tm.Compute([]int{1}, true))

	for _, presyn := range []int{0, 1, 2} {
		var synID uint64
		for _, id := range tm.SynapsesForSegment(segID) {
			data, err := tm.DataForSynapse(id)
			require.NoError(t, err)
			if data.PresynapticCell == presyn {
				synID = id
			}
		}
		require.NotZero(t, synID, "synapse to cell %d should still exist", presyn)
		data, err := tm.DataForSynapse(synID)
		require.NoError(t, err)
		assert.InDelta(t, 0.60, data.Permanence, 1e-9)
	}

	data, err := tm.DataForSynapse(inactiveSynID)
	require.NoError(t, err)
	assert.InDelta(t, 0.42, data.Permanence, 1e-9)
}

// Scenario 4: a synapse whose permanence would fall to or below zero is
// destroyed rather than left at a clamped value.
func TestCompute_WeakSynapseDestroyed(t *testing.T) {
	params := scenarioParameters()
	params.InitialPermanence = 0.2
	params.PermanenceDecrement = 0.10
	tm, err := NewTemporalMemory(params)
	require.NoError(t, err)

	segID, err := tm.CreateSegment(5)
	require.NoError(t, err)
	for _, presyn := range []int{0, 1, 2} {
		_, err := tm.CreateSynapse(segID, presyn, 0.5)
		require.NoError(t, err)
	}
	weakSynID, err := tm.CreateSynapse(segID, 99, 0.009)
	require.NoError(t, err)

	require.NoError(t, tm.Compute([]int{0}, true))
	require.NoError(t, tm.Compute([]int{1}, true))

	_, err = tm.DataForSynapse(weakSynID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Scenario 5: LRU segment eviction at maxSegmentsPerCell=2 discards the
// segment created first once a third segment must be allocated.
func TestConnections_LRUSegmentEviction(t *testing.T) {
	params := scenarioParameters()
	params.MaxSegmentsPerCell = 2
	tm, err := NewTemporalMemory(params)
	require.NoError(t, err)

	first, err := tm.CreateSegment(9)
	require.NoError(t, err)
	tm.connections.segments[first].lastUsed = 1

	second, err := tm.CreateSegment(9)
	require.NoError(t, err)
	tm.connections.segments[second].lastUsed = 2

	assert.ElementsMatch(t, []uint64{first, second}, tm.SegmentsForCell(9))

	tm.step = 3
	third, err := tm.CreateSegment(9)
	require.NoError(t, err)
	tm.connections.segments[third].lastUsed = 3

	segs := tm.SegmentsForCell(9)
	assert.Len(t, segs, 2)
	assert.NotContains(t, segs, first)
	assert.Contains(t, segs, second)
	assert.Contains(t, segs, third)
}

// Scenario 6: with learn=false, the graph is byte-for-byte unchanged
// across computes.
func TestCompute_LearnFalseLeavesGraphUnchanged(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	segID, err := tm.CreateSegment(4)
	require.NoError(t, err)
	for _, presyn := range []int{0, 1, 2, 3} {
		_, err := tm.CreateSynapse(segID, presyn, 0.5)
		require.NoError(t, err)
	}

	var before bytes.Buffer
	require.NoError(t, tm.Write(&before))

	require.NoError(t, tm.Compute([]int{0}, false))
	require.NoError(t, tm.Compute([]int{1}, false))

	var after bytes.Buffer
	require.NoError(t, tm.Write(&after))

	restored, err := ReadSnapshot(&before)
	require.NoError(t, err)
	reloaded, err := ReadSnapshot(&after)
	require.NoError(t, err)
	assert.True(t, restored.Equal(reloaded))
}

func TestCompute_WinnerCellsAreSubsetOfActiveCells(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	require.NoError(t, tm.Compute([]int{0, 5, 9}, true))

	active := toSet(tm.GetActiveCells())
	for _, w := range tm.GetWinnerCells() {
		_, ok := active[w]
		assert.True(t, ok, "winner cell %d must be active", w)
	}
}

func TestCompute_SynapsePermanencesStayInRange(t *testing.T) {
	params := scenarioParameters()
	params.PredictedSegmentDecrement = 0.3
	tm, err := NewTemporalMemory(params)
	require.NoError(t, err)

	for step := 0; step < 20; step++ {
		require.NoError(t, tm.Compute([]int{step % 8}, true))
	}

	for _, syn := range tm.connections.synapses {
		assert.GreaterOrEqual(t, syn.permanence, 0.0)
		assert.LessOrEqual(t, syn.permanence, 1.0)
	}
}

func TestNewTemporalMemory_RejectsInvalidParameters(t *testing.T) {
	_, err := NewTemporalMemory(Parameters{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	p := DefaultParameters()
	p.CellsPerColumn = 0
	_, err = NewTemporalMemory(p)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReset_ClearsStateNotGraph(t *testing.T) {
	tm, err := NewTemporalMemory(scenarioParameters())
	require.NoError(t, err)

	segID, err := tm.CreateSegment(4)
	require.NoError(t, err)
	_, err = tm.CreateSynapse(segID, 0, 0.5)
	require.NoError(t, err)

	require.NoError(t, tm.Compute([]int{0}, true))
	tm.Reset()

	assert.Empty(t, tm.GetActiveCells())
	assert.Empty(t, tm.GetWinnerCells())
	assert.Equal(t, 1, tm.NumSegments())
}
