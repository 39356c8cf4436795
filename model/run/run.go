// Package run models a single simulator execution record: the engine, the
// LEMS file it was launched with and the observed outcome.
package run

import (
	"time"
)

// State represents a run lifecycle state.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateDenied    State = "denied"
)

// Run captures a single simulator execution.
type Run struct {
	ID        string    `json:"id"`
	Engine    string    `json:"engine"`
	SourceURL string    `json:"sourceURL"`
	WorkDir   string    `json:"workDir,omitempty"`
	Host      string    `json:"host,omitempty"`
	Command   string    `json:"command,omitempty"`
	State     State     `json:"state"`
	ExitCode  int       `json:"exitCode"`
	Stdout    string    `json:"stdout,omitempty"`
	Error     string    `json:"error,omitempty"`
	Outputs   []string  `json:"outputs,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	StartedAt time.Time `json:"startedAt,omitempty"`
	EndedAt   time.Time `json:"endedAt,omitempty"`
}

// Start transitions the run into the running state.
func (r *Run) Start(at time.Time) {
	r.State = StateRunning
	r.StartedAt = at
}

// Complete marks the run finished with the given exit code; a non-zero exit
// fails the run.
func (r *Run) Complete(at time.Time, exitCode int) {
	r.EndedAt = at
	r.ExitCode = exitCode
	if exitCode == 0 {
		r.State = StateCompleted
		return
	}
	r.State = StateFailed
}

// Fail marks the run failed with an error message.
func (r *Run) Fail(at time.Time, err error) {
	r.EndedAt = at
	r.State = StateFailed
	if err != nil {
		r.Error = err.Error()
	}
}

// Elapsed returns the wall-clock duration of a finished run.
func (r *Run) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Clone returns a deep copy so stored records cannot be mutated by callers.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	ret := *r
	ret.Outputs = append([]string(nil), r.Outputs...)
	return &ret
}
