package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParameters() Parameters {
	p := DefaultParameters()
	p.ColumnDimensions = []int{16}
	p.CellsPerColumn = 4
	p.MaxSegmentsPerCell = 0
	p.MaxSynapsesPerSegment = 0
	return p
}

func TestConnections_CreateSegmentRejectsOutOfRangeCell(t *testing.T) {
	c := newConnections(testParameters())
	_, err := c.createSegment(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = c.createSegment(c.params.numberOfCells())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestConnections_CreateSynapseClampsPermanence(t *testing.T) {
	c := newConnections(testParameters())
	segID, err := c.createSegment(0)
	require.NoError(t, err)

	synID, err := c.createSynapse(segID, 1, 1.5)
	require.NoError(t, err)
	data, err := c.dataForSynapse(synID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, data.Permanence)

	synID2, err := c.createSynapse(segID, 2, -0.5)
	require.NoError(t, err)
	data2, err := c.dataForSynapse(synID2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, data2.Permanence)
}

func TestConnections_WeakestSynapseRecycledAtCapacity(t *testing.T) {
	p := testParameters()
	p.MaxSynapsesPerSegment = 2
	c := newConnections(p)

	segID, err := c.createSegment(0)
	require.NoError(t, err)

	synA, err := c.createSynapse(segID, 1, 0.3)
	require.NoError(t, err)
	_, err = c.createSynapse(segID, 2, 0.8)
	require.NoError(t, err)

	// A third synapse at capacity recycles the weakest (synA, perm 0.3).
	_, err = c.createSynapse(segID, 3, 0.6)
	require.NoError(t, err)

	assert.Len(t, c.synapsesForSegment(segID), 2)
	recycled, err := c.dataForSynapse(synA)
	require.NoError(t, err)
	assert.Equal(t, 3, recycled.PresynapticCell)
	assert.Equal(t, 0.6, recycled.Permanence)
}

func TestConnections_DestroySegmentRemovesAllSynapses(t *testing.T) {
	c := newConnections(testParameters())
	segID, err := c.createSegment(0)
	require.NoError(t, err)
	synID, err := c.createSynapse(segID, 1, 0.5)
	require.NoError(t, err)

	c.destroySegment(segID)

	_, err = c.dataForSegment(segID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.dataForSynapse(synID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, c.numSegments())
	assert.Equal(t, 0, c.numSynapses())
}

func TestConnections_ComputeActivityCountsOnlyLiveConnectedSynapses(t *testing.T) {
	p := testParameters()
	p.ConnectedPermanence = 0.5
	c := newConnections(p)

	segID, err := c.createSegment(0)
	require.NoError(t, err)
	_, err = c.createSynapse(segID, 1, 0.6) // connected, active
	require.NoError(t, err)
	_, err = c.createSynapse(segID, 2, 0.3) // potential only, active
	require.NoError(t, err)
	weakSyn, err := c.createSynapse(segID, 3, 0.6) // connected, inactive presynaptic
	require.NoError(t, err)
	_ = weakSyn

	connOverlap, potOverlap := c.computeActivity([]int{1, 2})
	assert.Equal(t, 1, connOverlap[segID])
	assert.Equal(t, 2, potOverlap[segID])
}

func TestConnections_EqualIgnoresIDsButNotStructure(t *testing.T) {
	p := testParameters()
	a := newConnections(p)
	b := newConnections(p)

	segA, _ := a.createSegment(0)
	_, _ = a.createSynapse(segA, 1, 0.5)

	segB, _ := b.createSegment(0)
	_, _ = b.createSynapse(segB, 1, 0.5)

	assert.True(t, a.equal(b))

	_, _ = b.createSynapse(segB, 2, 0.5)
	assert.False(t, a.equal(b))
}
