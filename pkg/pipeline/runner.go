package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/claim"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/observability"
	"github.com/matzehuels/stackmotion/pkg/physics"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/scene"
	"github.com/matzehuels/stackmotion/pkg/trajectory"
)

// Runner executes runs against a physical model and a renderer.
//
// A Runner processes transitions sequentially and is not safe for
// concurrent Run calls: the model it wraps is usually stateful. Scale out
// with several processes over disjoint or claimed index ranges instead.
type Runner struct {
	Model    physics.Model
	Renderer render.Renderer
	Claimer  claim.Claimer
	Logger   *log.Logger
}

// NewRunner creates a runner.
// If claimer is nil, a NullClaimer is used (no cross-worker coordination).
// If logger is nil, output is discarded.
func NewRunner(model physics.Model, renderer render.Renderer, claimer claim.Claimer, logger *log.Logger) *Runner {
	if claimer == nil {
		claimer = claim.NewNull()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Model:    model,
		Renderer: renderer,
		Claimer:  claimer,
		Logger:   logger,
	}
}

// OperatingElevation returns the height of the shared transit plane for a
// pre/goal pair: the highest object centre plus four times the largest
// object size, over both states.
func OperatingElevation(pre, goal scene.State) float64 {
	height := max(pre.MaxHeight(), goal.MaxHeight())
	size := max(pre.MaxSize(), goal.MaxSize())
	return height + 4*size
}

// Run processes transitions [opts.StartIndex, opts.End()) in order.
//
// Failures of individual transitions are recorded in the report and do not
// stop the run. Run returns an error only for invalid options or when ctx is
// canceled; in the latter case the partial report is returned too.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Model == nil || r.Renderer == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "runner needs a model and a renderer")
	}

	store := checkpoint.NewStore(opts.Layout())
	report := &Report{}
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	r.Logger.Info("starting run",
		"start", opts.StartIndex,
		"count", opts.Count,
		"frames", opts.Frames,
		"output", opts.OutputDir)

	for i := opts.StartIndex; i < opts.End(); i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.runTransition(ctx, store, i, &opts)
		report.Transitions = append(report.Transitions, res)
		if res.Status == StatusCanceled {
			return report, ctx.Err()
		}
	}

	r.Logger.Info("run finished",
		"complete", report.Count(StatusComplete),
		"failed", report.Failed(),
		"skipped", report.Count(StatusSkipped),
		"rendered", report.Rendered())
	return report, nil
}

// runTransition drives one transition through
// claim → checkpoint → plan → render.
func (r *Runner) runTransition(ctx context.Context, store *checkpoint.Store, i int, opts *Options) (res TransitionResult) {
	hooks := observability.Transition()
	logger := r.Logger.With("transition", i)
	start := time.Now()
	res.Index = i

	hooks.OnTransitionStart(ctx, i)
	defer func() {
		res.Duration = time.Since(start)
		hooks.OnTransitionComplete(ctx, i, res.Status.String(), res.Duration, res.Err)
		switch res.Status {
		case StatusFailed:
			logger.Error("transition failed", "err", res.Err)
		case StatusComplete:
			logger.Debug("transition complete", "rendered", res.Rendered, "skipped", res.Skipped, "duration", res.Duration)
		}
	}()

	release, err := r.Claimer.Claim(ctx, i)
	if err != nil {
		if errors.Is(err, errors.ErrCodeClaimed) {
			logger.Info("claimed by another worker, skipping")
			res.Status = StatusSkipped
			res.Err = err
			return res
		}
		return res.fail(i, errors.NoFrame, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release claim", "err", err)
		}
	}()

	cp, err := r.checkpoint(ctx, store, i, opts, logger, &res)
	if err != nil {
		if ctx.Err() != nil {
			res.Status = StatusCanceled
			res.Err = ctx.Err()
			return res
		}
		return res.fail(i, errors.NoFrame, err)
	}

	elevation := OperatingElevation(cp.Pre, cp.Goal)
	frames, err := trajectory.Plan(cp.Pre, cp.Goal, opts.Frames, elevation,
		trajectory.WithActiveThreshold(*opts.ActiveThreshold))
	if err != nil {
		return res.fail(i, errors.NoFrame, err)
	}
	logger.Debug("planned trajectory", "frames", len(frames), "elevation", elevation,
		"active", len(trajectory.ActiveIDs(cp.Pre, cp.Goal, *opts.ActiveThreshold)))

	layout := store.Layout()
	if err := layout.Ensure(i); err != nil {
		return res.fail(i, errors.NoFrame, err)
	}
	for j, state := range frames {
		if err := ctx.Err(); err != nil {
			res.Status = StatusCanceled
			res.Err = err
			return res
		}
		rendered, err := r.renderFrame(ctx, layout, i, j, state, opts)
		if err != nil {
			if ctx.Err() != nil {
				res.Status = StatusCanceled
				res.Err = ctx.Err()
				return res
			}
			return res.fail(i, j, err)
		}
		if rendered {
			res.Rendered++
		} else {
			res.Skipped++
		}
	}

	res.Status = StatusComplete
	return res
}

// checkpoint loads transition i or synthesizes and persists a new one.
func (r *Runner) checkpoint(ctx context.Context, store *checkpoint.Store, i int, opts *Options, logger *log.Logger, res *TransitionResult) (checkpoint.Checkpoint, error) {
	hooks := observability.Transition()

	cp, found, err := store.Resolve(i)
	if err != nil {
		return cp, err
	}
	if found {
		logger.Debug("loaded checkpoint", "objects", cp.Pre.Len())
		hooks.OnCheckpointLoaded(ctx, i)
		res.Loaded = true
		return cp, nil
	}

	cp, attempts, err := r.synthesize(ctx, i, opts, logger)
	res.Attempts = attempts
	if err != nil {
		return cp, err
	}
	if err := store.Save(cp); err != nil {
		return cp, err
	}
	logger.Info("wrote checkpoint", "objects", cp.Pre.Len(), "attempts", attempts, "digest", cp.Digest()[:12])
	hooks.OnCheckpointWritten(ctx, i, attempts)
	return cp, nil
}

// synthesize samples a fresh pre state and applies *opts.Actions random
// actions to a copy of it. An infeasible action discards the attempt and
// starts over from a new pre state, at most opts.MaxAttempts times.
func (r *Runner) synthesize(ctx context.Context, i int, opts *Options, logger *log.Logger) (checkpoint.Checkpoint, int, error) {
	hooks := observability.Transition()
	var lastReason string

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return checkpoint.Checkpoint{}, attempt - 1, err
		}

		pre := r.Model.NewScene()
		goal, reason, ok := r.sampleGoal(pre, *opts.Actions)
		if ok {
			if err := scene.CheckPairing(pre, goal); err != nil {
				return checkpoint.Checkpoint{}, attempt, errors.Wrap(errors.ErrCodeInternal, err, "model changed object ids")
			}
			return checkpoint.Checkpoint{Index: i, Pre: pre, Goal: goal}, attempt, nil
		}

		lastReason = reason
		logger.Debug("infeasible sample, retrying", "attempt", attempt, "reason", reason)
		hooks.OnInfeasible(ctx, i, attempt, reason)
	}
	return checkpoint.Checkpoint{}, opts.MaxAttempts, errors.New(errors.ErrCodeInfeasible,
		"no feasible goal after %d attempts: %s", opts.MaxAttempts, lastReason)
}

func (r *Runner) sampleGoal(pre scene.State, actions int) (scene.State, string, bool) {
	goal := pre.Clone()
	for range actions {
		res := r.Model.RandomAction(goal)
		if res.Infeasible {
			return scene.State{}, res.Reason, false
		}
		goal = res.State
	}
	return goal, "", true
}

// renderFrame renders frame j unless its image exists. It reports whether
// the renderer was called.
func (r *Runner) renderFrame(ctx context.Context, layout checkpoint.Layout, i, j int, state scene.State, opts *Options) (bool, error) {
	hooks := observability.Frame()

	done, err := layout.FrameDone(i, j)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "stat image")
	}
	if done {
		hooks.OnFrameSkipped(ctx, i, j)
		return false, nil
	}

	if !opts.NoJitter {
		state = r.Model.Jitter(state)
	}
	req := render.Request{
		Objects:        state,
		ImagePath:      layout.ImagePath(i, j),
		AnnotationPath: layout.AnnotationPath(i, j),
	}

	start := time.Now()
	if err := r.Renderer.Render(ctx, req); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if errors.GetCode(err) == errors.ErrCodeArtifactWrite {
			return false, err
		}
		return false, errors.Wrap(errors.ErrCodeArtifactWrite, err, "render")
	}
	done, err = layout.FrameDone(i, j)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "stat image")
	}
	if !done {
		return false, errors.New(errors.ErrCodeArtifactWrite, "renderer returned without writing %s", req.ImagePath)
	}
	hooks.OnFrameRendered(ctx, i, j, time.Since(start))
	return true, nil
}

func (res TransitionResult) fail(i, j int, err error) TransitionResult {
	res.Status = StatusFailed
	res.Err = errors.AtFrame(i, j, err)
	return res
}
