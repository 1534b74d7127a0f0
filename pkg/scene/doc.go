// Package scene defines the block-world scene state shared by the planner,
// the orchestrator and the external rendering and physics collaborators.
//
// # Overview
//
// A [State] is an ordered list of [Object] values. Each object carries a stable
// integer ID: object 7 in a pre state and object 7 in a goal state are the same
// physical block at two points in time. [CheckPairing] enforces that a
// pre/goal pair has the same id set before anything interpolates between them.
//
// States are treated as values. Functions that derive a new arrangement call
// [State.Clone] first and never mutate their inputs.
//
// # Serialization
//
// [Marshal] and [Unmarshal] implement the on-disk schema:
//
//	{
//	  "objects": [
//	    {"id": 0, "shape": "cube", "color": [0.1, 0.4, 0.9, 1],
//	     "size": 0.7, "material": "rubber", "stackable": true,
//	     "location": [1.5, -2, 0.35]}
//	  ]
//	}
//
// Location is a three-element array (x, y, height). Decoding validates array
// lengths and colour ranges, and a round trip reproduces object order and every
// field exactly.
package scene
