package sdr

import (
	"fmt"
	"math"
)

// SparsityTracker accumulates per-step sparsity samples from a generator
// run and reports whether the stream as a whole stayed within HTM's
// compliant range of [0.01, 0.10].
type SparsityTracker struct {
	min, max float64
	samples  []float64
}

// NewSparsityTracker creates a tracker for a generator configured at the
// given target sparsity, rejecting targets outside HTM's compliant range.
func NewSparsityTracker(target float64) (*SparsityTracker, error) {
	if target < 0.01 || target > 0.10 {
		return nil, fmt.Errorf("target sparsity %.3f outside HTM range [0.01, 0.10]", target)
	}
	return &SparsityTracker{min: 0.01, max: 0.10}, nil
}

// Add records one pattern's sparsity.
func (t *SparsityTracker) Add(p *Pattern) {
	if p != nil {
		t.samples = append(t.samples, p.Sparsity())
	}
}

// Report summarizes the sparsity distribution seen so far.
type Report struct {
	Mean    float64
	Min     float64
	Max     float64
	StdDev  float64
	Count   int
	InRange int
}

// Report computes summary statistics over every sample added so far.
func (t *SparsityTracker) Report() Report {
	if len(t.samples) == 0 {
		return Report{}
	}

	r := Report{Count: len(t.samples)}
	sum := 0.0
	r.Min, r.Max = t.samples[0], t.samples[0]
	for _, s := range t.samples {
		sum += s
		if s < r.Min {
			r.Min = s
		}
		if s > r.Max {
			r.Max = s
		}
		if s >= t.min && s <= t.max {
			r.InRange++
		}
	}
	r.Mean = sum / float64(len(t.samples))

	sumSq := 0.0
	for _, s := range t.samples {
		diff := s - r.Mean
		sumSq += diff * diff
	}
	r.StdDev = math.Sqrt(sumSq / float64(len(t.samples)))
	return r
}
