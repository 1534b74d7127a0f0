// Package physics defines the contract between the orchestrator and a
// physical state model.
//
// The model owns everything the orchestrator must not decide: what a default
// scene looks like, which moves are legal, and how much noise to add to a
// rendered frame. The orchestrator only sequences calls.
package physics

import "github.com/matzehuels/stackmotion/pkg/scene"

// Model samples scenes and legal actions.
type Model interface {
	// NewScene returns a freshly sampled default scene.
	NewScene() scene.State

	// RandomAction applies one random legal action to a copy of s.
	// It must not modify s.
	RandomAction(s scene.State) Result

	// Jitter returns a slightly perturbed copy of s for rendering.
	Jitter(s scene.State) scene.State
}

// Result is the outcome of RandomAction: either a new state or a report that
// no legal action exists from s.
type Result struct {
	State      scene.State
	Infeasible bool
	Reason     string
}

// Ok wraps a successfully derived state.
func Ok(s scene.State) Result {
	return Result{State: s}
}

// Infeasible reports that no legal action could be sampled.
func Infeasible(reason string) Result {
	return Result{Infeasible: true, Reason: reason}
}
