// Package stats summarizes latency samples collected by the dashboard probes.
package stats

import (
	"math"
	"slices"
	"sync"
	"time"
)

// TailLatency holds the median, 95th percentile and maximum of a sample set.
type TailLatency struct {
	Samples int
	P50     time.Duration
	P95     time.Duration
	Max     time.Duration
}

// CalculateTailLatency computes P50, P95 and Max from samples using the
// nearest-rank method. The input slice is not modified.
//
// With few samples P95 equals Max, which is the expected nearest-rank result.
func CalculateTailLatency(samples []time.Duration) TailLatency {
	if len(samples) == 0 {
		return TailLatency{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return TailLatency{
		Samples: len(sorted),
		P50:     Percentile(sorted, 0.50),
		P95:     Percentile(sorted, 0.95),
		Max:     sorted[len(sorted)-1],
	}
}

// Percentile returns the nearest-rank value at p (0..1) of an ascending slice.
//
// Formula: index = ceil(n * p) - 1, clamped to [0, n-1].
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := int(math.Ceil(float64(n)*p)) - 1
	index = max(0, min(index, n-1))
	return sorted[index]
}

// Window keeps the most recent samples of a watch session, up to a fixed size.
// It is safe for concurrent use.
type Window struct {
	mu      sync.Mutex
	size    int
	samples []time.Duration
}

// NewWindow returns a window holding at most size samples (at least 1).
func NewWindow(size int) *Window {
	return &Window{size: max(size, 1)}
}

// Add records a sample, dropping the oldest one when the window is full.
func (w *Window) Add(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples = append(w.samples, d)
	if over := len(w.samples) - w.size; over > 0 {
		w.samples = slices.Delete(w.samples, 0, over)
	}
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.samples)
}

// Tail summarizes the samples currently in the window.
func (w *Window) Tail() TailLatency {
	w.mu.Lock()
	defer w.mu.Unlock()
	return CalculateTailLatency(w.samples)
}
