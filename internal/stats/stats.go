// Package stats keeps rolling-window statistics for conversions.
package stats

import (
	"slices"
	"sync"
	"time"
)

// Conversion is the outcome of one linearize or build call. Rows is the
// number of rows produced (linearize) or consumed (build).
type Conversion struct {
	Duration time.Duration
	Rows     int
	Err      error
}

type sample struct {
	at     time.Time
	ms     int64
	rows   int
	failed bool
}

// Snapshot aggregates the conversions still inside the window. Latency and
// row figures cover successful conversions only.
type Snapshot struct {
	Count     int     `json:"count"`
	Errors    int     `json:"errors"`
	LastError string  `json:"last_error,omitempty"`
	Rows      int     `json:"rows"`
	MaxRows   int     `json:"max_rows"`
	AvgRows   float64 `json:"avg_rows"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// Window holds the conversions of one operation seen within maxAge.
type Window struct {
	mu        sync.Mutex
	samples   []sample
	lastError string
	maxAge    time.Duration
}

func NewWindow(maxAge time.Duration) *Window {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Window{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Add records one conversion.
func (w *Window) Add(c Conversion) {
	ms := c.Duration.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
	w.samples = append(w.samples, sample{
		at:     now,
		ms:     ms,
		rows:   max(c.Rows, 0),
		failed: c.Err != nil,
	})
	if c.Err != nil {
		w.lastError = c.Err.Error()
	}
}

func (w *Window) Snapshot() Snapshot {
	now := time.Now()
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	var snap Snapshot
	durations := make([]int64, 0, len(w.samples))
	var sum int64
	for _, s := range w.samples {
		if s.failed {
			snap.Errors++
			continue
		}
		durations = append(durations, s.ms)
		sum += s.ms
		snap.Rows += s.rows
		snap.MaxRows = max(snap.MaxRows, s.rows)
	}
	if snap.Errors > 0 {
		snap.LastError = w.lastError
	}
	if len(durations) == 0 {
		return snap
	}
	slices.Sort(durations)

	n := len(durations)
	snap.Count = n
	snap.AvgRows = float64(snap.Rows) / float64(n)
	snap.MinMs = durations[0]
	snap.MaxMs = durations[n-1]
	snap.AvgMs = float64(sum) / float64(n)
	snap.P50Ms = percentile(durations, 50)
	snap.P95Ms = percentile(durations, 95)
	snap.P99Ms = percentile(durations, 99)
	return snap
}

func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.maxAge)
	w.samples = slices.DeleteFunc(w.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
