package temporal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"sort"
)

// snapshotMagic identifies the binary format; snapshotVersion allows the
// layout to evolve while Read can still reject incompatible streams.
const (
	snapshotMagic   uint32 = 0x544D0001
	snapshotVersion uint16 = 1
)

type snapshotSynapse struct {
	ID              uint64
	PresynapticCell int
	Permanence      float64
}

type snapshotSegment struct {
	ID       uint64
	Cell     int
	LastUsed int64
	Synapses []snapshotSynapse
}

// snapshotPayload is the gob-encoded body following the fixed header. It
// captures every field needed to reconstruct a TemporalMemory that is
// deep-equal to the original and produces identical outputs on subsequent
// Compute calls, per spec.md §6.
type snapshotPayload struct {
	Params Parameters

	RNGState uint64

	ArenaSegNext uint64
	ArenaSegFree []uint64
	ArenaSynNext uint64
	ArenaSynFree []uint64

	Segments []snapshotSegment

	PrevActiveCells []int
	PrevWinnerCells []int
	ActiveCells     []int
	WinnerCells     []int
	PredictiveCells []int
	Step            int64
}

// Write serializes tm into the versioned binary snapshot format: an 8-byte
// header (magic, format version, reserved) followed by a gob-encoded
// payload.
func (tm *TemporalMemory) Write(w io.Writer) error {
	payload := tm.toPayload()

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(payload); err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", ErrSerialization, err)
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], snapshotMagic)
	binary.BigEndian.PutUint16(header[4:6], snapshotVersion)
	binary.BigEndian.PutUint16(header[6:8], 0)

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("%w: writing header: %v", ErrSerialization, err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("%w: writing body: %v", ErrSerialization, err)
	}
	return nil
}

// ReadSnapshot deserializes a TemporalMemory previously produced by Write.
// A truncated or incompatible stream fails with SerializationError.
func ReadSnapshot(r io.Reader) (*TemporalMemory, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated header: %v", ErrSerialization, err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	if magic != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %x", ErrSerialization, magic)
	}
	version := binary.BigEndian.Uint16(header[4:6])
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrSerialization, version)
	}

	var payload snapshotPayload
	if err := gob.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %v", ErrSerialization, err)
	}
	return fromPayload(payload)
}

func (tm *TemporalMemory) toPayload() snapshotPayload {
	c := tm.connections

	segIDs := make([]uint64, 0, len(c.segments))
	for id := range c.segments {
		segIDs = append(segIDs, id)
	}
	sort.Slice(segIDs, func(i, j int) bool { return segIDs[i] < segIDs[j] })

	segments := make([]snapshotSegment, 0, len(segIDs))
	for _, segID := range segIDs {
		seg := c.segments[segID]
		synIDs := append([]uint64(nil), seg.synapses...)
		synapses := make([]snapshotSynapse, 0, len(synIDs))
		for _, synID := range synIDs {
			syn := c.synapses[synID]
			synapses = append(synapses, snapshotSynapse{
				ID:              syn.id,
				PresynapticCell: syn.presynapticCell,
				Permanence:      syn.permanence,
			})
		}
		segments = append(segments, snapshotSegment{
			ID:       seg.id,
			Cell:     seg.cell,
			LastUsed: seg.lastUsed,
			Synapses: synapses,
		})
	}

	return snapshotPayload{
		Params:          tm.params,
		RNGState:        tm.rng.state,
		ArenaSegNext:    c.arenaSeg.next,
		ArenaSegFree:    append([]uint64(nil), c.arenaSeg.free...),
		ArenaSynNext:    c.arenaSyn.next,
		ArenaSynFree:    append([]uint64(nil), c.arenaSyn.free...),
		Segments:        segments,
		PrevActiveCells: append([]int(nil), tm.prevActiveCells...),
		PrevWinnerCells: append([]int(nil), tm.prevWinnerCells...),
		ActiveCells:     append([]int(nil), tm.activeCells...),
		WinnerCells:     append([]int(nil), tm.winnerCells...),
		PredictiveCells: append([]int(nil), tm.predictiveCells...),
		Step:            tm.step,
	}
}

func fromPayload(payload snapshotPayload) (*TemporalMemory, error) {
	if err := payload.Params.Validate(); err != nil {
		return nil, err
	}

	c := newConnections(payload.Params)
	c.arenaSeg.next = payload.ArenaSegNext
	c.arenaSeg.free = append([]uint64(nil), payload.ArenaSegFree...)
	c.arenaSyn.next = payload.ArenaSynNext
	c.arenaSyn.free = append([]uint64(nil), payload.ArenaSynFree...)

	for _, ss := range payload.Segments {
		seg := &segment{id: ss.ID, cell: ss.Cell, lastUsed: ss.LastUsed}
		for _, ssyn := range ss.Synapses {
			syn := &synapse{
				id:              ssyn.ID,
				segment:         ss.ID,
				presynapticCell: ssyn.PresynapticCell,
				permanence:      ssyn.Permanence,
			}
			c.synapses[syn.id] = syn
			seg.synapses = append(seg.synapses, syn.id)
			c.indexSynapse(syn)
		}
		c.segments[seg.id] = seg
		c.cellSegments[seg.cell] = append(c.cellSegments[seg.cell], seg.id)
	}

	tm := &TemporalMemory{
		params:          payload.Params,
		connections:     c,
		rng:             &rng{state: payload.RNGState},
		prevActiveCells: append([]int(nil), payload.PrevActiveCells...),
		prevWinnerCells: append([]int(nil), payload.PrevWinnerCells...),
		activeCells:     append([]int(nil), payload.ActiveCells...),
		winnerCells:     append([]int(nil), payload.WinnerCells...),
		predictiveCells: append([]int(nil), payload.PredictiveCells...),
		step:            payload.Step,
	}
	return tm, nil
}
