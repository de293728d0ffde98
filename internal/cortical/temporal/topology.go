package temporal

import "fmt"

// columnForCell returns the column index owning cell.
func (tm *TemporalMemory) columnForCell(cell int) (int, error) {
	if cell < 0 || cell >= tm.params.numberOfCells() {
		return 0, fmt.Errorf("%w: cell %d", ErrOutOfRange, cell)
	}
	return cell / tm.params.CellsPerColumn, nil
}

// cellsForColumn returns the range of cell indices belonging to col.
func (tm *TemporalMemory) cellsForColumn(col int) ([]int, error) {
	if col < 0 || col >= tm.params.numberOfColumns() {
		return nil, fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	start := col * tm.params.CellsPerColumn
	cells := make([]int, tm.params.CellsPerColumn)
	for i := range cells {
		cells[i] = start + i
	}
	return cells, nil
}

// NumberOfColumns is the product of the configured column dimensions.
func (tm *TemporalMemory) NumberOfColumns() int {
	return tm.params.numberOfColumns()
}

// NumberOfCells is NumberOfColumns * CellsPerColumn.
func (tm *TemporalMemory) NumberOfCells() int {
	return tm.params.numberOfCells()
}

// ColumnForCell returns the column index owning cell, or OutOfRange.
func (tm *TemporalMemory) ColumnForCell(cell int) (int, error) {
	return tm.columnForCell(cell)
}

// CellsForColumn returns the cell indices belonging to col, or OutOfRange.
func (tm *TemporalMemory) CellsForColumn(col int) ([]int, error) {
	return tm.cellsForColumn(col)
}

// MapCellsToColumns groups cells by their owning column. Cells outside the
// valid range are silently omitted, consistent with the engine's policy of
// never failing mid-step on out-of-range input.
func (tm *TemporalMemory) MapCellsToColumns(cells []int) map[int][]int {
	out := make(map[int][]int)
	for _, cell := range cells {
		col, err := tm.columnForCell(cell)
		if err != nil {
			continue
		}
		out[col] = append(out[col], cell)
	}
	return out
}
