package temporal

import "sort"

// activeSegment pairs a segment ID with its owning cell; the segment's
// connected overlap met activationThreshold.
type activeSegment struct {
	cell    int
	segment uint64
}

// matchingSegment pairs a segment ID with the potential overlap that made
// it matching (potential overlap >= minThreshold).
type matchingSegment struct {
	cell      int
	segment   uint64
	potential int
}

// classify partitions segments into active and matching sets given the
// overlap counts from computeActivity, ordered deterministically by
// (owning cell, segment ID) as required by spec.md §4.2.
func (tm *TemporalMemory) classify(connectedOverlap, potentialOverlap map[uint64]int) (active []activeSegment, matching []matchingSegment) {
	for segID, overlap := range connectedOverlap {
		if overlap >= tm.params.ActivationThreshold {
			seg, ok := tm.connections.segments[segID]
			if !ok {
				continue
			}
			active = append(active, activeSegment{cell: seg.cell, segment: segID})
		}
	}
	for segID, overlap := range potentialOverlap {
		if overlap >= tm.params.MinThreshold {
			seg, ok := tm.connections.segments[segID]
			if !ok {
				continue
			}
			matching = append(matching, matchingSegment{cell: seg.cell, segment: segID, potential: overlap})
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].cell != active[j].cell {
			return active[i].cell < active[j].cell
		}
		return active[i].segment < active[j].segment
	})
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].cell != matching[j].cell {
			return matching[i].cell < matching[j].cell
		}
		return matching[i].segment < matching[j].segment
	})
	return active, matching
}
