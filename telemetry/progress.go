package telemetry

import (
	"log/slog"
	"sync/atomic"
)

// SlogTracker reports simulation progress through slog. The counter is
// atomic: group tasks complete concurrently and each one adds its unit.
type SlogTracker struct {
	label string
	total int64
	done  atomic.Int64
}

// NewSlogTracker creates an idle tracker.
func NewSlogTracker() *SlogTracker {
	return &SlogTracker{}
}

// Start resets the tracker for a run of totalUnits units.
func (t *SlogTracker) Start(label string, totalUnits int) {
	t.label = label
	t.total = int64(totalUnits)
	t.done.Store(0)
	slog.Info("starting", "label", label, "units", totalUnits)
}

// Add records completed units. Safe for concurrent use.
func (t *SlogTracker) Add(units int) {
	done := t.done.Add(int64(units))
	slog.Info("progress", "label", t.label, "done", done, "total", t.total)
}

// Finish logs completion.
func (t *SlogTracker) Finish() {
	slog.Info("finished", "label", t.label, "units", t.done.Load())
}

// Done returns the units completed so far. Safe to call while tasks are
// still adding.
func (t *SlogTracker) Done() int64 {
	return t.done.Load()
}
