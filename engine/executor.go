package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Tracker is the progress sink. Start is called once before dispatch with
// the total unit count, Add once per completed group task plus a final unit
// after the join, Finish once at the end. Implementations must tolerate
// concurrent Add calls.
type Tracker interface {
	Start(label string, totalUnits int)
	Add(units int)
	Finish()
}

// NullTracker discards all progress.
type NullTracker struct{}

func (NullTracker) Start(string, int) {}
func (NullTracker) Add(int)           {}
func (NullTracker) Finish()           {}

// Executor fans one task per group onto goroutines, runs each group's full
// iteration count, and joins. A run either completes or fails as a whole;
// a partially rendered raster is not valid output.
type Executor struct {
	system     *System
	iterations int
	tracker    Tracker

	// Durations holds per-group wall time after Run, indexed by group.
	Durations []time.Duration
}

// NewExecutor creates an executor. tracker may be nil.
func NewExecutor(system *System, iterations int, tracker Tracker) *Executor {
	if tracker == nil {
		tracker = NullTracker{}
	}
	return &Executor{
		system:     system,
		iterations: iterations,
		tracker:    tracker,
		Durations:  make([]time.Duration, system.GroupCount()),
	}
}

// Run blocks until every group task completes. A panic in any task is
// recovered into the returned error and flips an abort flag the remaining
// tasks observe between iterations.
func (e *Executor) Run() error {
	groups := e.system.GroupCount()
	e.tracker.Start("Flow Field", groups+1)

	var (
		wg       sync.WaitGroup
		aborted  atomic.Bool
		errOnce  sync.Mutex
		firstErr error
	)

	fail := func(gi int, r any) {
		errOnce.Lock()
		if firstErr == nil {
			firstErr = fmt.Errorf("group %d: %v", gi, r)
		}
		errOnce.Unlock()
		aborted.Store(true)
	}

	for gi := 0; gi < groups; gi++ {
		wg.Add(1)
		go func(gi int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(gi, r)
				}
			}()

			start := time.Now()
			for j := 0; j < e.iterations; j++ {
				if aborted.Load() {
					return
				}
				e.system.Step(gi)
			}
			e.system.Flush(gi)
			e.Durations[gi] = time.Since(start)
			e.tracker.Add(1)
		}(gi)
	}

	wg.Wait()

	if firstErr != nil {
		return fmt.Errorf("simulation aborted: %w", firstErr)
	}

	e.tracker.Add(1)
	e.tracker.Finish()
	return nil
}
