package pipeline

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Status is the terminal state of one transition in a run.
type Status int

const (
	// StatusComplete means every frame image exists.
	StatusComplete Status = iota
	// StatusFailed means the transition hit a fatal condition.
	StatusFailed
	// StatusSkipped means another worker holds the transition's claim.
	StatusSkipped
	// StatusCanceled means the run stopped before the transition finished.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// TransitionResult records what happened to one transition.
type TransitionResult struct {
	Index    int
	Status   Status
	Loaded   bool // checkpoint came from disk
	Attempts int  // synthesis attempts, zero when loaded
	Rendered int  // frames rendered in this run
	Skipped  int  // frames that already had an image
	Duration time.Duration
	Err      error
}

// Report summarizes a run.
type Report struct {
	Transitions []TransitionResult
	Duration    time.Duration
}

// Count returns the number of transitions with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, t := range r.Transitions {
		if t.Status == s {
			n++
		}
	}
	return n
}

// Failed returns the number of failed transitions.
func (r *Report) Failed() int { return r.Count(StatusFailed) }

// Rendered returns the total number of frames rendered.
func (r *Report) Rendered() int {
	n := 0
	for _, t := range r.Transitions {
		n += t.Rendered
	}
	return n
}

// Err joins the errors of all failed transitions, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, t := range r.Transitions {
		if t.Status == StatusFailed && t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return stderrors.Join(errs...)
}
