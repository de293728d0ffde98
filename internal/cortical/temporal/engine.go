package temporal

import "sort"

// TemporalMemory is the stateful sequence-learning engine described by
// spec.md: it owns a Connections graph and the previous/current activation
// state, and exposes a single synchronous Compute transition per step.
//
// TemporalMemory is not safe for concurrent use; callers that need to
// serialize concurrent HTTP requests against one instance must provide
// their own mutex (see internal/services).
type TemporalMemory struct {
	params      Parameters
	connections *connections
	rng         *rng

	prevActiveCells []int
	prevWinnerCells []int

	activeCells     []int
	winnerCells     []int
	predictiveCells []int

	step int64
}

// NewTemporalMemory constructs an engine from params, failing with
// InvalidArgument if params do not satisfy spec.md §4.5.
func NewTemporalMemory(params Parameters) (*TemporalMemory, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &TemporalMemory{
		params:      params,
		connections: newConnections(params),
		rng:         newRNG(params.Seed),
	}, nil
}

// Parameters returns the engine's construction-time configuration.
func (tm *TemporalMemory) Parameters() Parameters {
	return tm.params
}

// GetActiveCells returns the cells active at the current step.
func (tm *TemporalMemory) GetActiveCells() []int {
	return append([]int(nil), tm.activeCells...)
}

// GetWinnerCells returns the winner cells selected at the current step.
func (tm *TemporalMemory) GetWinnerCells() []int {
	return append([]int(nil), tm.winnerCells...)
}

// GetPredictiveCells returns the cells predicted to become active next step.
func (tm *TemporalMemory) GetPredictiveCells() []int {
	return append([]int(nil), tm.predictiveCells...)
}

// Reset clears the previous-step active/winner sets without altering the
// graph, per spec.md §4.3.
func (tm *TemporalMemory) Reset() {
	tm.prevActiveCells = nil
	tm.prevWinnerCells = nil
	tm.activeCells = nil
	tm.winnerCells = nil
	tm.predictiveCells = nil
}

// NumSegments returns the total live segment count across the graph.
func (tm *TemporalMemory) NumSegments() int {
	return tm.connections.numSegments()
}

// NumSynapses returns the total live synapse count across the graph.
func (tm *TemporalMemory) NumSynapses() int {
	return tm.connections.numSynapses()
}

// Equal reports whether tm and other have matching parameters and
// structurally isomorphic graphs (spec.md §3 deep-equality definition).
func (tm *TemporalMemory) Equal(other *TemporalMemory) bool {
	if other == nil {
		return false
	}
	if !parametersEqual(tm.params, other.params) {
		return false
	}
	return tm.connections.equal(other.connections)
}

func parametersEqual(a, b Parameters) bool {
	if len(a.ColumnDimensions) != len(b.ColumnDimensions) {
		return false
	}
	for i := range a.ColumnDimensions {
		if a.ColumnDimensions[i] != b.ColumnDimensions[i] {
			return false
		}
	}
	return a.CellsPerColumn == b.CellsPerColumn &&
		a.ActivationThreshold == b.ActivationThreshold &&
		a.InitialPermanence == b.InitialPermanence &&
		a.ConnectedPermanence == b.ConnectedPermanence &&
		a.MinThreshold == b.MinThreshold &&
		a.MaxNewSynapseCount == b.MaxNewSynapseCount &&
		a.PermanenceIncrement == b.PermanenceIncrement &&
		a.PermanenceDecrement == b.PermanenceDecrement &&
		a.PredictedSegmentDecrement == b.PredictedSegmentDecrement &&
		a.MaxSegmentsPerCell == b.MaxSegmentsPerCell &&
		a.MaxSynapsesPerSegment == b.MaxSynapsesPerSegment
}

// CreateSegment exposes connections.createSegment for tests that need to
// build a graph directly, per the original NuPIC test suite's
// segment-construction helpers.
func (tm *TemporalMemory) CreateSegment(cell int) (uint64, error) {
	return tm.connections.createSegment(cell)
}

// CreateSynapse exposes connections.createSynapse for direct graph
// construction in tests.
func (tm *TemporalMemory) CreateSynapse(segID uint64, presynapticCell int, permanence float64) (uint64, error) {
	return tm.connections.createSynapse(segID, presynapticCell, permanence)
}

// DataForSegment exposes connections.dataForSegment.
func (tm *TemporalMemory) DataForSegment(segID uint64) (SegmentData, error) {
	return tm.connections.dataForSegment(segID)
}

// DataForSynapse exposes connections.dataForSynapse.
func (tm *TemporalMemory) DataForSynapse(synID uint64) (SynapseData, error) {
	return tm.connections.dataForSynapse(synID)
}

// SegmentsForCell exposes connections.segmentsForCell.
func (tm *TemporalMemory) SegmentsForCell(cell int) []uint64 {
	return tm.connections.segmentsForCell(cell)
}

// SynapsesForSegment exposes connections.synapsesForSegment.
func (tm *TemporalMemory) SynapsesForSegment(segID uint64) []uint64 {
	return tm.connections.synapsesForSegment(segID)
}

// Compute performs one time step: it partitions activeColumns into
// predicted-active and bursting columns using the segment classification
// carried over from the previous step, then — when learn is true —
// reinforces, punishes, and grows segments/synapses (Phases B–D), and
// finally recomputes the classification against the new active cells to
// produce the predictive set for the next step (Phase E).
func (tm *TemporalMemory) Compute(activeColumns []int, learn bool) error {
	tm.connections.step = tm.step

	connOverlap, potOverlap := tm.connections.computeActivity(tm.prevActiveCells)
	activeSegs, matchingSegs := tm.classify(connOverlap, potOverlap)

	activeByColumn := make(map[int][]activeSegment)
	for _, as := range activeSegs {
		col, err := tm.columnForCell(as.cell)
		if err != nil {
			continue
		}
		activeByColumn[col] = append(activeByColumn[col], as)
	}
	matchingByColumn := make(map[int][]matchingSegment)
	for _, ms := range matchingSegs {
		col, err := tm.columnForCell(ms.cell)
		if err != nil {
			continue
		}
		matchingByColumn[col] = append(matchingByColumn[col], ms)
	}

	activeColSet := make(map[int]struct{}, len(activeColumns))
	for _, col := range activeColumns {
		if col >= 0 && col < tm.params.numberOfColumns() {
			activeColSet[col] = struct{}{}
		}
	}

	var newActiveCells []int
	var newWinnerCells []int
	var segmentsToReinforce []uint64
	type growthTask struct {
		segment         uint64
		priorPotential  int
	}
	var segmentsToGrow []growthTask

	for _, col := range sortedColumns(activeColSet) {
		if segs := activeByColumn[col]; len(segs) > 0 {
			for _, as := range segs {
				newActiveCells = append(newActiveCells, as.cell)
				newWinnerCells = append(newWinnerCells, as.cell)
				if learn {
					segmentsToReinforce = append(segmentsToReinforce, as.segment)
				}
			}
			continue
		}

		cells, err := tm.cellsForColumn(col)
		if err != nil {
			continue
		}
		newActiveCells = append(newActiveCells, cells...)

		var winner int
		var selected uint64
		hasSelected := false
		if segs := matchingByColumn[col]; len(segs) > 0 {
			best := segs[0]
			for _, s := range segs[1:] {
				if s.potential > best.potential || (s.potential == best.potential && s.segment < best.segment) {
					best = s
				}
			}
			winner = best.cell
			selected = best.segment
			hasSelected = true
		} else {
			winner = tm.leastUsedCell(cells)
		}
		newWinnerCells = append(newWinnerCells, winner)

		if learn {
			if hasSelected {
				segmentsToReinforce = append(segmentsToReinforce, selected)
				segmentsToGrow = append(segmentsToGrow, growthTask{segment: selected, priorPotential: potOverlap[selected]})
			} else {
				newSeg, err := tm.connections.createSegment(winner)
				if err == nil {
					segmentsToGrow = append(segmentsToGrow, growthTask{segment: newSeg, priorPotential: 0})
				}
			}
		}
	}

	if learn {
		for _, segID := range segmentsToReinforce {
			tm.reinforceSegment(segID)
		}
		if tm.params.PredictedSegmentDecrement > 0 {
			tm.punishMatchingSegments(matchingSegs, activeColSet)
		}
		for _, task := range segmentsToGrow {
			tm.growSynapses(task.segment, task.priorPotential)
			if seg, ok := tm.connections.segments[task.segment]; ok && len(seg.synapses) == 0 {
				tm.connections.destroySegment(task.segment)
			}
		}
	}

	newActiveCells = dedupSortedInts(newActiveCells)
	newWinnerCells = dedupSortedInts(newWinnerCells)

	nextConnOverlap, _ := tm.connections.computeActivity(newActiveCells)
	predictiveSet := make(map[int]struct{})
	for segID, overlap := range nextConnOverlap {
		if overlap < tm.params.ActivationThreshold {
			continue
		}
		seg, ok := tm.connections.segments[segID]
		if !ok {
			continue
		}
		predictiveSet[seg.cell] = struct{}{}
	}

	tm.activeCells = newActiveCells
	tm.winnerCells = newWinnerCells
	tm.predictiveCells = sortedKeys(predictiveSet)
	tm.prevActiveCells = newActiveCells
	tm.prevWinnerCells = newWinnerCells
	tm.step++
	return nil
}

// reinforceSegment implements Phase B for a single segment: synapses to
// prev-active cells are strengthened, all others are weakened and
// destroyed once permanence reaches zero.
func (tm *TemporalMemory) reinforceSegment(segID uint64) {
	seg, ok := tm.connections.segments[segID]
	if !ok {
		return
	}
	prevActive := toSet(tm.prevActiveCells)
	for _, synID := range append([]uint64(nil), seg.synapses...) {
		syn, ok := tm.connections.synapses[synID]
		if !ok {
			continue
		}
		if _, active := prevActive[syn.presynapticCell]; active {
			syn.permanence = clamp01(syn.permanence + tm.params.PermanenceIncrement)
		} else {
			syn.permanence = clamp01(syn.permanence - tm.params.PermanenceDecrement)
			if syn.permanence <= 0 {
				tm.connections.destroySynapse(synID)
			}
		}
	}
	seg.lastUsed = tm.step
	if len(seg.synapses) == 0 {
		tm.connections.destroySegment(segID)
	}
}

// punishMatchingSegments implements Phase C: every matching segment whose
// column did not activate this step has its synapses to prev-active cells
// weakened by predictedSegmentDecrement.
func (tm *TemporalMemory) punishMatchingSegments(matchingSegs []matchingSegment, activeColSet map[int]struct{}) {
	prevActive := toSet(tm.prevActiveCells)
	for _, ms := range matchingSegs {
		col, err := tm.columnForCell(ms.cell)
		if err != nil {
			continue
		}
		if _, ok := activeColSet[col]; ok {
			continue
		}
		seg, ok := tm.connections.segments[ms.segment]
		if !ok {
			continue
		}
		for _, synID := range append([]uint64(nil), seg.synapses...) {
			syn, ok := tm.connections.synapses[synID]
			if !ok {
				continue
			}
			if _, active := prevActive[syn.presynapticCell]; !active {
				continue
			}
			syn.permanence = clamp01(syn.permanence - tm.params.PredictedSegmentDecrement)
			if syn.permanence <= 0 {
				tm.connections.destroySynapse(synID)
			}
		}
		if len(seg.synapses) == 0 {
			tm.connections.destroySegment(ms.segment)
		}
	}
}

// growSynapses implements Phase D for one segment: it samples up to
// maxNewSynapseCount-priorPotentialOverlap candidates from prevWinnerCells
// not already presynaptic to the segment, using the engine's seeded
// random source for deterministic sampling without replacement.
func (tm *TemporalMemory) growSynapses(segID uint64, priorPotentialOverlap int) {
	n := tm.params.MaxNewSynapseCount - priorPotentialOverlap
	if n <= 0 {
		return
	}
	seg, ok := tm.connections.segments[segID]
	if !ok {
		return
	}
	existing := make(map[int]struct{}, len(seg.synapses))
	for _, synID := range seg.synapses {
		if syn, ok := tm.connections.synapses[synID]; ok {
			existing[syn.presynapticCell] = struct{}{}
		}
	}
	var candidates []int
	for _, cell := range tm.prevWinnerCells {
		if _, already := existing[cell]; already {
			continue
		}
		candidates = append(candidates, cell)
	}
	chosen := tm.rng.sampleWithoutReplacement(candidates, n)
	for _, cell := range chosen {
		_, _ = tm.connections.createSynapse(segID, cell, tm.params.InitialPermanence)
	}
}

// leastUsedCell picks the cell in cells with the fewest owned segments,
// ties broken via the engine's random source.
func (tm *TemporalMemory) leastUsedCell(cells []int) int {
	minCount := -1
	var tied []int
	for _, cell := range cells {
		count := len(tm.connections.cellSegments[cell])
		switch {
		case minCount == -1 || count < minCount:
			minCount = count
			tied = []int{cell}
		case count == minCount:
			tied = append(tied, cell)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	return tied[tm.rng.intn(len(tied))]
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedColumns(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for col := range set {
		out = append(out, col)
	}
	sort.Ints(out)
	return out
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func dedupSortedInts(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
