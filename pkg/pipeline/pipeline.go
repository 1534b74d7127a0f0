// Package pipeline drives transition generation for stackmotion.
//
// A run covers a contiguous range of transition indices. For each index the
// [Runner] claims the transition, loads or synthesizes its pre/goal
// checkpoint, plans the lift-translate-lower trajectory and renders every
// frame whose image does not exist yet. Reruns over the same range are
// idempotent: finished frames are skipped, and a checkpoint once written is
// never resampled.
//
// # Architecture
//
// Per transition:
//
//  1. Claim: an advisory claim from a [claim.Claimer]; held elsewhere means skip
//  2. Checkpoint: load both halves, or synthesize with bounded retry and save
//  3. Plan: [trajectory.Plan] at the operating elevation of the pair
//  4. Render: one [render.Request] per missing frame
//
// A failure in one transition is recorded in the [Report] and the run moves
// on to the next index. Only invalid options and cancellation end a run
// early.
//
// # Usage
//
//	runner := pipeline.NewRunner(model, renderer, nil, logger)
//	report, err := runner.Run(ctx, pipeline.Options{
//	    Count:     100,
//	    Frames:    9,
//	    OutputDir: "output",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if report.Failed() > 0 {
//	    log.Fatal(report.Err())
//	}
package pipeline

import (
	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/trajectory"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultCount is the number of transitions in a run.
	DefaultCount = 100

	// DefaultFrames is the number of images per transition. Nine frames give
	// every phase three images, so both endpoints of every phase appear.
	DefaultFrames = 9

	// DefaultActions is the number of random actions from pre to goal.
	DefaultActions = 1

	// DefaultMaxAttempts bounds synthesis retries on infeasible samples.
	DefaultMaxAttempts = 10

	// DefaultOutputDir is the output root.
	DefaultOutputDir = "output"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for one run.
type Options struct {
	StartIndex int    `toml:"start_index"`
	Count      int    `toml:"count"`
	Frames     int    `toml:"frames"`
	OutputDir  string `toml:"output_dir"`
	Prefix     string `toml:"prefix"`

	// Actions is the number of random actions from pre to goal. Nil selects
	// DefaultActions; zero yields transitions whose goal equals their pre
	// state.
	Actions *int `toml:"actions"`

	// ActiveThreshold is the minimum pre-to-goal distance for an object to
	// move. Nil selects trajectory.DefaultActiveThreshold; zero makes every
	// object active.
	ActiveThreshold *float64 `toml:"active_threshold"`

	// MaxAttempts bounds synthesis attempts per transition.
	MaxAttempts int `toml:"max_attempts"`

	// NoJitter disables the model's per-frame perturbation.
	NoJitter bool `toml:"no_jitter"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Zero values of the plain fields mean "use the default" except for
// StartIndex and Count: a zero Count is a valid empty run. The pointer
// fields are defaulted only when nil, so an explicit zero is honoured.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.StartIndex < 0 {
		return errors.New(errors.ErrCodeConfiguration, "start index must be >= 0, got %d", o.StartIndex)
	}
	if o.Count < 0 {
		return errors.New(errors.ErrCodeConfiguration, "count must be >= 0, got %d", o.Count)
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if err := errors.ValidateFrameCount(o.Frames); err != nil {
		return err
	}
	if o.Actions == nil {
		o.Actions = Ptr(DefaultActions)
	}
	if *o.Actions < 0 {
		return errors.New(errors.ErrCodeConfiguration, "actions must be >= 0, got %d", *o.Actions)
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if err := errors.ValidateOutputDir(o.OutputDir); err != nil {
		return err
	}
	if o.Prefix == "" {
		o.Prefix = checkpoint.DefaultPrefix
	}
	if err := errors.ValidatePrefix(o.Prefix); err != nil {
		return err
	}
	if o.ActiveThreshold == nil {
		o.ActiveThreshold = Ptr(trajectory.DefaultActiveThreshold)
	}
	if err := errors.ValidateThreshold(*o.ActiveThreshold); err != nil {
		return err
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MaxAttempts < 0 {
		return errors.New(errors.ErrCodeConfiguration, "max attempts must be >= 1, got %d", o.MaxAttempts)
	}
	o.validated = true
	return nil
}

// Ptr returns a pointer to v, for the optional fields of Options.
func Ptr[T any](v T) *T { return &v }

// Layout returns the artifact layout for these options.
func (o *Options) Layout() checkpoint.Layout {
	return checkpoint.Layout{Root: o.OutputDir, Prefix: o.Prefix}
}

// End returns the first index after the run's range.
func (o *Options) End() int {
	return o.StartIndex + o.Count
}
