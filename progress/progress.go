// Package progress keeps aggregated run counters for a simulation batch. The
// tracker lives in the batch context so every worker that receives the
// context can atomically update the counters via Delta, without a global
// registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the batch
// scheduler or a run worker. Fields are signed and can decrement.
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Pending   int
}

// Progress keeps aggregated run counters for a batch. Safe for concurrent
// use.
type Progress struct {
	// Identification, informative only.
	BatchID   string
	Engine    string
	StartedAt time.Time

	// Counters, modified via Update().
	TotalRuns     int
	CompletedRuns int
	FailedRuns    int
	RunningRuns   int
	PendingRuns   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta. The onChange callback, when registered,
// is invoked with a copy of the updated tracker outside the critical section
// so it can perform slow operations without blocking workers.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalRuns += d.Total
	p.CompletedRuns += d.Completed
	p.FailedRuns += d.Failed
	p.RunningRuns += d.Running
	p.PendingRuns += d.Pending

	snapshot := *p
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return *p
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker for a batch, embeds it in a derived
// context and returns both.
func WithNewTracker(ctx context.Context, batchID, engine string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracker := &Progress{
		BatchID:   batchID,
		Engine:    engine,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tracker), tracker
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tracker, ok := ctx.Value(trackerKey).(*Progress)
	return tracker, ok
}

// GetSnapshot combines FromContext and Snapshot; the boolean is false when
// the context carries no tracker.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tracker, ok := FromContext(ctx); ok {
		return tracker.Snapshot(), true
	}
	return Progress{}, false
}
