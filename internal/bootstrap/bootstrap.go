// Package bootstrap assembles the canonical deployment sequence: install
// dependencies, collect static assets, migrate the schema, seed platform
// settings, seed referral settings.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/callgrid/platform-bootstrap/internal/sequence"
)

// Canonical step names, in required order. Later steps assume the side
// effects of all earlier ones: the installers provide the tooling, assets
// are database-independent, migration defines the rows the two settings
// initializers write, and referral settings may reference platform-level
// defaults.
const (
	StepInstall              = "install"
	StepCollectAssets        = "collect-assets"
	StepMigrate              = "migrate"
	StepInitPlatformSettings = "init-platform-settings"
	StepInitReferralSettings = "init-referral-settings"
)

// Collaborators holds the action for each canonical step.
type Collaborators struct {
	InstallDeps          func(ctx context.Context) error
	CollectAssets        func(ctx context.Context) error
	Migrate              func(ctx context.Context) error
	InitPlatformSettings func(ctx context.Context) error
	InitReferralSettings func(ctx context.Context) error
}

// Recorder persists run outcomes to the bootstrap ledger. Recording is
// best-effort: ledger failures never change a run's result.
type Recorder interface {
	CreateBootstrapRun(ctx context.Context) (uuid.UUID, error)
	CompleteBootstrapRun(ctx context.Context, runID uuid.UUID, status string) error
	RecordBootstrapStep(ctx context.Context, runID uuid.UUID, step, status, errMsg string, durationMs int64) error
}

// Runner executes the canonical sequence.
type Runner struct {
	Collaborators Collaborators
	// Recorder receives the run outcome when non-nil and a database is
	// reachable after the run.
	Recorder Recorder
	// Out receives progress lines; nil discards them.
	Out     io.Writer
	Verbose bool
}

// NewSequence builds the canonical five-step sequence.
func NewSequence(c Collaborators) sequence.Sequence {
	return sequence.Sequence{
		{Name: StepInstall, Action: c.InstallDeps},
		{Name: StepCollectAssets, Action: c.CollectAssets},
		{Name: StepMigrate, Action: c.Migrate},
		{Name: StepInitPlatformSettings, Action: c.InitPlatformSettings},
		{Name: StepInitReferralSettings, Action: c.InitReferralSettings},
	}
}

// stepOutcome is one step's ledger entry.
type stepOutcome struct {
	name     string
	err      error
	duration time.Duration
}

// Run executes the sequence in order, fail-fast, and records the outcome to
// the ledger when one is configured.
func (r *Runner) Run(ctx context.Context) (sequence.Result, error) {
	seq := NewSequence(r.Collaborators)

	var outcomes []stepOutcome
	var startedAt time.Time
	obs := &sequence.Observer{
		StepStarted: func(i int, step sequence.Step) {
			startedAt = time.Now()
			r.printf("Step %d/%d: %s...\n", i+1, len(seq), step.Name)
		},
		StepFinished: func(i int, step sequence.Step, err error) {
			outcomes = append(outcomes, stepOutcome{
				name:     step.Name,
				err:      err,
				duration: time.Since(startedAt),
			})
			if err != nil {
				r.printf("Step %d/%d: %s FAILED: %v\n", i+1, len(seq), step.Name, err)
			}
		},
	}

	result, err := sequence.Run(ctx, seq, obs)
	if err != nil {
		return result, err
	}

	r.record(ctx, result, outcomes)

	if result.Completed() {
		r.printf("Bootstrap completed: %d/%d steps succeeded.\n", result.StepsRun, len(seq))
	} else {
		r.printf("Bootstrap aborted at %s; %d of %d steps were not attempted.\n",
			result.FailedStep, len(seq)-result.StepsRun, len(seq))
	}
	return result, nil
}

// record writes the run to the bootstrap ledger. The ledger tables only
// exist once the migrate step has run, so failures here are reported in
// verbose mode and otherwise ignored.
func (r *Runner) record(ctx context.Context, result sequence.Result, outcomes []stepOutcome) {
	if r.Recorder == nil {
		return
	}

	runID, err := r.Recorder.CreateBootstrapRun(ctx)
	if err != nil {
		r.verbosef("Warning: failed to record bootstrap run: %v\n", err)
		return
	}

	for _, o := range outcomes {
		status := "succeeded"
		errMsg := ""
		if o.err != nil {
			status = "failed"
			errMsg = o.err.Error()
		}
		if err := r.Recorder.RecordBootstrapStep(ctx, runID, o.name, status, errMsg, o.duration.Milliseconds()); err != nil {
			r.verbosef("Warning: failed to record step %s: %v\n", o.name, err)
		}
	}

	status := "completed"
	if !result.Completed() {
		status = "aborted"
	}
	if err := r.Recorder.CompleteBootstrapRun(ctx, runID, status); err != nil {
		r.verbosef("Warning: failed to complete bootstrap run record: %v\n", err)
	}
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func (r *Runner) verbosef(format string, args ...any) {
	if r.Verbose {
		r.printf("[VERBOSE] "+format, args...)
	}
}
