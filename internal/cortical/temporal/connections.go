package temporal

import (
	"fmt"
	"sort"
)

// segment is a dendritic segment owned by exactly one cell.
type segment struct {
	id         uint64
	cell       int
	synapses   []uint64 // live synapse IDs, in creation order
	lastUsed   int64    // monotonic step counter, set at creation and reinforcement
	destroyed  bool
}

// synapse connects a presynaptic cell to a segment.
type synapse struct {
	id               uint64
	segment          uint64
	presynapticCell  int
	permanence       float64
	destroyed        bool
}

// SynapseData is the public snapshot of a synapse returned by DataForSynapse.
type SynapseData struct {
	PresynapticCell int
	Permanence      float64
	Destroyed       bool
}

// SegmentData is the public snapshot of a segment returned by DataForSegment.
type SegmentData struct {
	Cell     int
	Synapses []uint64
}

// connections owns the cell -> segments -> synapses tree, an inverted
// presynaptic index, and enforces the per-cell and per-segment capacity
// limits described in spec.md §4.1.
type connections struct {
	params Parameters
	arenaSeg *arena
	arenaSyn *arena

	segments map[uint64]*segment
	synapses map[uint64]*synapse

	cellSegments map[int][]uint64 // cell -> segment IDs owned, creation order

	// presynapticIndex maps a presynaptic cell to the set of synapse IDs
	// that reference it. Pruned eagerly at destroy/recycle time so that
	// computeActivity never has to skip tombstones mid-scan (the Open
	// Question decision recorded in SPEC_FULL.md).
	presynapticIndex map[int]map[uint64]struct{}

	step int64 // current logical step counter, advanced by the engine
}

func newConnections(params Parameters) *connections {
	return &connections{
		params:           params,
		arenaSeg:         newArena(),
		arenaSyn:         newArena(),
		segments:         make(map[uint64]*segment),
		synapses:         make(map[uint64]*synapse),
		cellSegments:     make(map[int][]uint64),
		presynapticIndex: make(map[int]map[uint64]struct{}),
	}
}

func (c *connections) validCell(cell int) bool {
	return cell >= 0 && cell < c.params.numberOfCells()
}

// createSegment allocates a new segment on cell, first evicting the
// least-recently-used segment on that cell if it is already at capacity.
func (c *connections) createSegment(cell int) (uint64, error) {
	if !c.validCell(cell) {
		return 0, fmt.Errorf("%w: cell %d", ErrOutOfRange, cell)
	}

	if limit := c.params.MaxSegmentsPerCell; limit > 0 {
		for len(c.cellSegments[cell]) >= limit {
			lru := c.leastRecentlyUsedSegment(cell)
			if lru == 0 {
				break
			}
			c.destroySegment(lru)
		}
	}

	id := c.arenaSeg.allocate()
	seg := &segment{id: id, cell: cell, lastUsed: c.step}
	c.segments[id] = seg
	c.cellSegments[cell] = append(c.cellSegments[cell], id)
	return id, nil
}

// leastRecentlyUsedSegment returns the segment ID on cell with the smallest
// lastUsed timestamp, ties broken by lowest segment ID (i.e. creation
// order, since IDs are assigned monotonically before reuse).
func (c *connections) leastRecentlyUsedSegment(cell int) uint64 {
	var lruID uint64
	var lruTime int64
	found := false
	for _, segID := range c.cellSegments[cell] {
		seg, ok := c.segments[segID]
		if !ok || seg.destroyed {
			continue
		}
		if !found || seg.lastUsed < lruTime || (seg.lastUsed == lruTime && segID < lruID) {
			lruID = segID
			lruTime = seg.lastUsed
			found = true
		}
	}
	return lruID
}

// destroySegment removes the segment and all of its synapses. The segment
// ID is retired to the free list and may be reused.
func (c *connections) destroySegment(segID uint64) {
	seg, ok := c.segments[segID]
	if !ok || seg.destroyed {
		return
	}
	for _, synID := range append([]uint64(nil), seg.synapses...) {
		c.destroySynapse(synID)
	}
	seg.destroyed = true
	delete(c.segments, segID)
	c.cellSegments[seg.cell] = removeID(c.cellSegments[seg.cell], segID)
	c.arenaSeg.release(segID)
}

// createSynapse appends a synapse to segID, clamping permanence into
// [0,1]. If the segment is already at maxSynapsesPerSegment, the single
// weakest-permanence live synapse is recycled in place (overwritten)
// rather than a new ID allocated.
func (c *connections) createSynapse(segID uint64, presynapticCell int, permanence float64) (uint64, error) {
	seg, ok := c.segments[segID]
	if !ok || seg.destroyed {
		return 0, fmt.Errorf("%w: segment %d", ErrNotFound, segID)
	}
	if !c.validCell(presynapticCell) {
		return 0, fmt.Errorf("%w: presynaptic cell %d", ErrOutOfRange, presynapticCell)
	}
	permanence = clamp01(permanence)

	if limit := c.params.MaxSynapsesPerSegment; limit > 0 && len(seg.synapses) >= limit {
		weakest := c.weakestSynapse(seg)
		if weakest != 0 {
			return c.recycleSynapse(weakest, presynapticCell, permanence), nil
		}
	}

	id := c.arenaSyn.allocate()
	syn := &synapse{id: id, segment: segID, presynapticCell: presynapticCell, permanence: permanence}
	c.synapses[id] = syn
	seg.synapses = append(seg.synapses, id)
	c.indexSynapse(syn)
	return id, nil
}

// weakestSynapse returns the live synapse on seg with the lowest
// permanence, ties broken by lowest synapse ID.
func (c *connections) weakestSynapse(seg *segment) uint64 {
	var weakID uint64
	var weakPerm float64
	found := false
	for _, synID := range seg.synapses {
		syn, ok := c.synapses[synID]
		if !ok || syn.destroyed {
			continue
		}
		if !found || syn.permanence < weakPerm || (syn.permanence == weakPerm && synID < weakID) {
			weakID = synID
			weakPerm = syn.permanence
			found = true
		}
	}
	return weakID
}

// recycleSynapse overwrites an existing live synapse's fields in place,
// reusing its ID, and re-homes its inverted-index entry.
func (c *connections) recycleSynapse(synID uint64, presynapticCell int, permanence float64) uint64 {
	syn := c.synapses[synID]
	c.unindexSynapse(syn)
	syn.presynapticCell = presynapticCell
	syn.permanence = permanence
	c.indexSynapse(syn)
	return synID
}

// destroySynapse tombstones a synapse and removes it from the owning
// segment's live list and the inverted index immediately.
func (c *connections) destroySynapse(synID uint64) {
	syn, ok := c.synapses[synID]
	if !ok || syn.destroyed {
		return
	}
	syn.destroyed = true
	c.unindexSynapse(syn)
	delete(c.synapses, synID)
	if seg, ok := c.segments[syn.segment]; ok {
		seg.synapses = removeID(seg.synapses, synID)
	}
	c.arenaSyn.release(synID)
}

func (c *connections) indexSynapse(syn *synapse) {
	set, ok := c.presynapticIndex[syn.presynapticCell]
	if !ok {
		set = make(map[uint64]struct{})
		c.presynapticIndex[syn.presynapticCell] = set
	}
	set[syn.id] = struct{}{}
}

func (c *connections) unindexSynapse(syn *synapse) {
	if set, ok := c.presynapticIndex[syn.presynapticCell]; ok {
		delete(set, syn.id)
		if len(set) == 0 {
			delete(c.presynapticIndex, syn.presynapticCell)
		}
	}
}

// dataForSynapse returns the public snapshot of a synapse.
func (c *connections) dataForSynapse(synID uint64) (SynapseData, error) {
	syn, ok := c.synapses[synID]
	if !ok {
		return SynapseData{}, fmt.Errorf("%w: synapse %d", ErrNotFound, synID)
	}
	return SynapseData{PresynapticCell: syn.presynapticCell, Permanence: syn.permanence, Destroyed: syn.destroyed}, nil
}

// dataForSegment returns the public snapshot of a segment.
func (c *connections) dataForSegment(segID uint64) (SegmentData, error) {
	seg, ok := c.segments[segID]
	if !ok {
		return SegmentData{}, fmt.Errorf("%w: segment %d", ErrNotFound, segID)
	}
	return SegmentData{Cell: seg.cell, Synapses: append([]uint64(nil), seg.synapses...)}, nil
}

// segmentsForCell returns the segment IDs owned by cell, in creation order.
func (c *connections) segmentsForCell(cell int) []uint64 {
	return append([]uint64(nil), c.cellSegments[cell]...)
}

// synapsesForSegment returns the live synapse IDs on segID.
func (c *connections) synapsesForSegment(segID uint64) []uint64 {
	seg, ok := c.segments[segID]
	if !ok {
		return nil
	}
	return append([]uint64(nil), seg.synapses...)
}

func (c *connections) numSegments() int {
	return len(c.segments)
}

func (c *connections) numSynapses() int {
	return len(c.synapses)
}

// computeActivity returns, per segment ID, the connected overlap (live
// synapses at >= connectedPermanence whose presynaptic cell is active) and
// the potential overlap (every live synapse whose presynaptic cell is
// active). It walks the inverted index so cost is proportional to the
// in-degree of the active cells, not the total synapse count.
func (c *connections) computeActivity(activeCells []int) (connectedOverlap map[uint64]int, potentialOverlap map[uint64]int) {
	connectedOverlap = make(map[uint64]int)
	potentialOverlap = make(map[uint64]int)
	for _, cell := range activeCells {
		set, ok := c.presynapticIndex[cell]
		if !ok {
			continue
		}
		for synID := range set {
			syn, ok := c.synapses[synID]
			if !ok || syn.destroyed {
				continue
			}
			potentialOverlap[syn.segment]++
			if syn.permanence >= c.params.ConnectedPermanence {
				connectedOverlap[syn.segment]++
			}
		}
	}
	return connectedOverlap, potentialOverlap
}

// synapseKey identifies a synapse structurally, independent of its ID.
type synapseKey struct {
	presynapticCell int
	permanence      float64
}

// equal reports whether c and other are structurally isomorphic: for every
// cell, the multiset of segments (each a multiset of (presynapticCell,
// permanence) pairs) matches. Segment and synapse IDs are not part of
// equality, per spec.md §3.
func (c *connections) equal(other *connections) bool {
	if c.numberOfCellsHint() != other.numberOfCellsHint() {
		return false
	}
	cells := make(map[int]struct{})
	for cell := range c.cellSegments {
		cells[cell] = struct{}{}
	}
	for cell := range other.cellSegments {
		cells[cell] = struct{}{}
	}
	for cell := range cells {
		if !segmentMultisetsEqual(c.segmentFingerprints(cell), other.segmentFingerprints(cell)) {
			return false
		}
	}
	return true
}

func (c *connections) numberOfCellsHint() int {
	return c.params.numberOfCells()
}

// segmentFingerprints returns, for every live segment owned by cell, the
// sorted multiset of its live synapses' (presynapticCell, permanence) pairs.
func (c *connections) segmentFingerprints(cell int) [][]synapseKey {
	var out [][]synapseKey
	for _, segID := range c.cellSegments[cell] {
		seg, ok := c.segments[segID]
		if !ok || seg.destroyed {
			continue
		}
		var keys []synapseKey
		for _, synID := range seg.synapses {
			syn, ok := c.synapses[synID]
			if !ok || syn.destroyed {
				continue
			}
			keys = append(keys, synapseKey{presynapticCell: syn.presynapticCell, permanence: syn.permanence})
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].presynapticCell != keys[j].presynapticCell {
				return keys[i].presynapticCell < keys[j].presynapticCell
			}
			return keys[i].permanence < keys[j].permanence
		})
		out = append(out, keys)
	}
	return out
}

// segmentMultisetsEqual compares two lists of segment fingerprints as
// multisets, ignoring order between segments.
func segmentMultisetsEqual(a, b [][]synapseKey) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, fa := range a {
		matched := false
		for j, fb := range b {
			if used[j] {
				continue
			}
			if synapseKeysEqual(fa, fb) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func synapseKeysEqual(a, b []synapseKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func removeID(ids []uint64, target uint64) []uint64 {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
