// Package sequence provides the bootstrap sequencer: a fixed, ordered list of
// setup steps executed one at a time, aborting on the first failure.
package sequence

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptySequence is returned when Run is given a sequence with no steps.
var ErrEmptySequence = errors.New("sequence has no steps")

// Step is one discrete unit of setup work with a binary outcome.
// Actions must be idempotent: the standard recovery path for a failed run is
// "fix the cause, rerun the whole sequence from step 1", so every action has
// to tolerate the side effects of its own earlier invocations.
type Step struct {
	Name   string
	Action func(ctx context.Context) error
}

// Sequence is the ordered list of steps executed per bootstrap run.
// Ordering is significant: a later step may assume the side effects of all
// earlier steps. Ordering correctness is a configuration precondition; the
// runner does not infer or validate inter-step dependencies.
type Sequence []Step

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
)

// Result is the outcome of executing a sequence: either every step succeeded,
// or the run stopped at FailedStep with Cause. There is no partial-success
// variant; callers inspect FailedIndex to see how far execution progressed.
type Result struct {
	Outcome     Outcome
	StepsRun    int    // steps invoked, including a failed one
	FailedIndex int    // index of the failing step, -1 when completed
	FailedStep  string // name of the failing step, empty when completed
	Cause       error  // diagnostic from the failing step, nil when completed
}

// Err returns nil for a completed run, and the failure (tagged with the
// failing step name) for an aborted one.
func (r Result) Err() error {
	if r.Outcome == OutcomeCompleted {
		return nil
	}
	return fmt.Errorf("step %s failed: %w", r.FailedStep, r.Cause)
}

// Completed reports whether every step in the run succeeded.
func (r Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Observer receives lifecycle callbacks as the runner advances. Either field
// may be nil.
type Observer struct {
	StepStarted  func(index int, step Step)
	StepFinished func(index int, step Step, err error)
}

func (o *Observer) started(i int, s Step) {
	if o != nil && o.StepStarted != nil {
		o.StepStarted(i, s)
	}
}

func (o *Observer) finished(i int, s Step, err error) {
	if o != nil && o.StepFinished != nil {
		o.StepFinished(i, s, err)
	}
}

// Run executes the sequence on the calling goroutine, strictly in order: each
// step's action runs to completion before the next is considered. On the
// first failure the run stops immediately; remaining steps are never invoked
// and completed steps are not rolled back.
//
// The runner defines no timeout or cancellation of its own. ctx is passed
// through to each action; a collaborator that honors it may turn cancellation
// into an ordinary step failure.
func Run(ctx context.Context, seq Sequence, obs *Observer) (Result, error) {
	if len(seq) == 0 {
		return Result{}, ErrEmptySequence
	}

	for i, step := range seq {
		obs.started(i, step)
		err := step.Action(ctx)
		obs.finished(i, step, err)
		if err != nil {
			return Result{
				Outcome:     OutcomeAborted,
				StepsRun:    i + 1,
				FailedIndex: i,
				FailedStep:  step.Name,
				Cause:       err,
			}, nil
		}
	}

	return Result{
		Outcome:     OutcomeCompleted,
		StepsRun:    len(seq),
		FailedIndex: -1,
	}, nil
}
