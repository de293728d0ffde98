package temporal

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// metricsWindow bounds how many recent per-step samples are retained for
// running statistics; older samples are dropped rather than grown without
// bound, mirroring the teacher's fixed-size rolling metrics.
const metricsWindow = 1000

// Metrics accumulates running statistics over Compute calls: active-cell,
// winner-cell, and segment/synapse counts per step, plus a sample of live
// synapse permanences. Unlike the teacher's dense spatial-pooler metrics
// (a single running average updated in place), Temporal Memory's graph is
// sparse and its interesting statistics are distributional, so samples are
// retained in a bounded window and reduced with gonum/stat on demand.
type Metrics struct {
	mu sync.Mutex

	activeCellCounts []float64
	winnerCellCounts []float64
	segmentCounts    []float64
	synapseCounts    []float64
	permanenceSample []float64

	stepsRecorded int64
}

// NewMetrics returns an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSummary is the reduced view of Metrics returned by Snapshot.
type MetricsSummary struct {
	StepsRecorded int64

	ActiveCellMean, ActiveCellStdDev float64
	WinnerCellMean, WinnerCellStdDev float64
	SegmentCountMean, SegmentCountStdDev float64
	SynapseCountMean, SynapseCountStdDev float64
	PermanenceMean, PermanenceStdDev     float64
}

// RecordStep appends one step's observations, evicting the oldest sample
// once metricsWindow is exceeded.
func (m *Metrics) RecordStep(tm *TemporalMemory) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeCellCounts = pushBounded(m.activeCellCounts, float64(len(tm.activeCells)))
	m.winnerCellCounts = pushBounded(m.winnerCellCounts, float64(len(tm.winnerCells)))
	m.segmentCounts = pushBounded(m.segmentCounts, float64(tm.NumSegments()))
	m.synapseCounts = pushBounded(m.synapseCounts, float64(tm.NumSynapses()))

	for _, syn := range tm.connections.synapses {
		m.permanenceSample = pushBounded(m.permanenceSample, syn.permanence)
	}

	m.stepsRecorded++
}

// Reset clears all recorded samples.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeCellCounts = nil
	m.winnerCellCounts = nil
	m.segmentCounts = nil
	m.synapseCounts = nil
	m.permanenceSample = nil
	m.stepsRecorded = 0
}

// Snapshot reduces the recorded samples into a MetricsSummary using
// gonum/stat's mean/variance computation.
func (m *Metrics) Snapshot() MetricsSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := MetricsSummary{StepsRecorded: m.stepsRecorded}
	summary.ActiveCellMean, summary.ActiveCellStdDev = meanStdDev(m.activeCellCounts)
	summary.WinnerCellMean, summary.WinnerCellStdDev = meanStdDev(m.winnerCellCounts)
	summary.SegmentCountMean, summary.SegmentCountStdDev = meanStdDev(m.segmentCounts)
	summary.SynapseCountMean, summary.SynapseCountStdDev = meanStdDev(m.synapseCounts)
	summary.PermanenceMean, summary.PermanenceStdDev = meanStdDev(m.permanenceSample)
	return summary
}

func meanStdDev(samples []float64) (mean, stdDev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	if len(samples) == 1 {
		return samples[0], 0
	}
	mean, variance := stat.MeanVariance(samples, nil)
	return mean, math.Sqrt(variance)
}

func pushBounded(samples []float64, v float64) []float64 {
	samples = append(samples, v)
	if len(samples) > metricsWindow {
		samples = samples[len(samples)-metricsWindow:]
	}
	return samples
}
