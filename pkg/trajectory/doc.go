// Package trajectory synthesizes the frame-by-frame motion between two scene
// states.
//
// # Overview
//
// Objects never interpolate on a straight line from their pre location to
// their goal location, because that path would pass through other blocks.
// Instead every moving object follows the same three-phase route:
//
//  1. Lift: rise vertically to the operating elevation
//  2. Translate: move horizontally at that elevation to the goal (x, y)
//  3. Lower: descend vertically onto the goal location
//
// The operating elevation is supplied by the caller and must clear every
// object in both states. The planner itself never derives it.
//
// # Active Objects
//
// An object is active when the Euclidean distance between its pre and goal
// locations is at least the activation threshold ([DefaultActiveThreshold]
// unless [WithActiveThreshold] is given). Inactive objects are held at their
// pre location in every frame, so sampling noise in the goal state never
// shows up as drift.
//
// # Frame Budget
//
// [Split] divides F frames into F/3 lift frames, F/3 + F%3 translate frames
// and F/3 lower frames. The via-point states are shared by adjacent phases,
// so the path is continuous across phase boundaries. Within a phase of k
// frames, frame j uses fraction j/(k-1); a single-frame phase emits its start
// state and an empty phase emits nothing.
//
// For very small budgets this yields:
//
//	F=0  []
//	F=1  [lifted]
//	F=2  [lifted, translated]
//	F=3  [pre, lifted, translated]
//	F=6  [pre, lifted, lifted, translated, translated, goal]
//
// # Usage
//
//	frames, err := trajectory.Plan(pre, goal, 24, elevation)
//	if err != nil {
//	    return err
//	}
//	for j, s := range frames {
//	    render(j, s)
//	}
package trajectory
