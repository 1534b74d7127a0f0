package trajectory

import (
	"math"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// DefaultActiveThreshold is the minimum pre/goal distance for an object to move.
const DefaultActiveThreshold = 0.5

type config struct {
	threshold float64
}

// Option configures Plan.
type Option func(*config)

// WithActiveThreshold sets the distance at which an object counts as moving.
func WithActiveThreshold(t float64) Option {
	return func(c *config) { c.threshold = t }
}

// Plan returns exactly frames intermediate states leading from pre to goal
// through the operating elevation.
//
// The returned states keep the object order of pre. Every non-location field
// comes from pre. Plan never modifies its inputs.
//
// Errors are CONFIGURATION errors: a negative frame count, a non-finite
// elevation or threshold, or pre and goal with different object id sets.
func Plan(pre, goal scene.State, frames int, elevation float64, opts ...Option) ([]scene.State, error) {
	cfg := config{threshold: DefaultActiveThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := errors.ValidateFrameCount(frames); err != nil {
		return nil, err
	}
	if err := errors.ValidateThreshold(cfg.threshold); err != nil {
		return nil, err
	}
	if math.IsNaN(elevation) || math.IsInf(elevation, 0) {
		return nil, errors.New(errors.ErrCodeConfiguration, "operating elevation must be finite, got %v", elevation)
	}
	if err := scene.CheckPairing(pre, goal); err != nil {
		return nil, err
	}

	active := ActiveIDs(pre, goal, cfg.threshold)
	step1, step2 := ViaPoints(pre, goal, active, elevation)
	phases := Split(frames)

	out := make([]scene.State, 0, frames)
	for _, leg := range []struct {
		from, to scene.State
		k        int
	}{
		{pre, step1, phases.Lift},
		{step1, step2, phases.Translate},
		{step2, goal, phases.Lower},
	} {
		states, err := Interpolate(leg.from, leg.to, active, leg.k)
		if err != nil {
			return nil, err
		}
		out = append(out, states...)
	}
	return out, nil
}

// ActiveIDs returns the set of object ids whose pre and goal locations are at
// least threshold apart. pre and goal must already be paired.
func ActiveIDs(pre, goal scene.State, threshold float64) map[int]bool {
	goalIdx := goal.ByID()
	active := make(map[int]bool)
	for _, o := range pre.Objects {
		i, ok := goalIdx[o.ID]
		if !ok {
			continue
		}
		if o.Location.Distance(goal.Objects[i].Location) >= threshold {
			active[o.ID] = true
		}
	}
	return active
}

// ViaPoints builds the two auxiliary states shared by adjacent phases:
// step1 lifts every active object to elevation, step2 additionally moves it
// to its goal (x, y). Inactive objects are copied from pre unchanged.
func ViaPoints(pre, goal scene.State, active map[int]bool, elevation float64) (step1, step2 scene.State) {
	goalIdx := goal.ByID()
	step1 = pre.Clone()
	step2 = pre.Clone()
	for i, o := range pre.Objects {
		if !active[o.ID] {
			continue
		}
		target := goal.Objects[goalIdx[o.ID]].Location
		step1.Objects[i].Location = scene.Location{X: o.Location.X, Y: o.Location.Y, Z: elevation}
		step2.Objects[i].Location = scene.Location{X: target.X, Y: target.Y, Z: elevation}
	}
	return step1, step2
}
