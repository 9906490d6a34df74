// Package stage owns the state of the two sequential pipeline stages
// (fetch-and-convert, analyze) on the client side: the per-stage state
// machine, live elapsed-time tracking, and the stale-result guard that
// keeps a superseded remote call from clobbering a newer one.
package stage

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a single stage.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Kind names one of the two stages.
type Kind string

const (
	KindFetch   Kind = "fetch"
	KindAnalyze Kind = "analyze"
)

// Stage holds the observable state of one pipeline stage.
type Stage struct {
	State     State
	StartedAt time.Time

	// ElapsedSeconds ticks while the stage is running.
	ElapsedSeconds int
	// FinalDurationSeconds is frozen when the stage leaves running.
	FinalDurationSeconds float64

	// Err is the classified failure when State is failed.
	Err error

	// gen is the monotonic generation counter. A resolution is applied
	// only when its ticket carries the current generation.
	gen uint64
}

// Ticket tags one stage invocation. Remote-call continuations hand it back
// so the controller can discard resolutions that were superseded.
type Ticket struct {
	kind Kind
	gen  uint64
}

// ValidationError reports a source reference that cannot start a fetch.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid source: %s", e.Reason)
}

// PreconditionError reports a start request made while its preconditions
// do not hold (analyze before a successful fetch, or any start while a
// stage is still running).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}
