package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology_ColumnAndCellArithmetic(t *testing.T) {
	p := DefaultParameters()
	p.ColumnDimensions = []int{8}
	p.CellsPerColumn = 4
	tm, err := NewTemporalMemory(p)
	require.NoError(t, err)

	assert.Equal(t, 32, tm.NumberOfCells())
	assert.Equal(t, 8, tm.NumberOfColumns())

	col, err := tm.ColumnForCell(9)
	require.NoError(t, err)
	assert.Equal(t, 2, col)

	cells, err := tm.CellsForColumn(2)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10, 11}, cells)
}

func TestTopology_OutOfRangeFails(t *testing.T) {
	p := DefaultParameters()
	p.ColumnDimensions = []int{8}
	p.CellsPerColumn = 4
	tm, err := NewTemporalMemory(p)
	require.NoError(t, err)

	_, err = tm.ColumnForCell(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tm.ColumnForCell(32)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tm.CellsForColumn(8)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTopology_MapCellsToColumnsGroupsAndIgnoresInvalid(t *testing.T) {
	p := DefaultParameters()
	p.ColumnDimensions = []int{4}
	p.CellsPerColumn = 2
	tm, err := NewTemporalMemory(p)
	require.NoError(t, err)

	grouped := tm.MapCellsToColumns([]int{0, 1, 2, 99, -5})
	assert.Equal(t, []int{0, 1}, grouped[0])
	assert.Equal(t, []int{2}, grouped[1])
	assert.NotContains(t, grouped, 49)
}
