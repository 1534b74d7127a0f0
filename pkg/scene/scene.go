package scene

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/stackmotion/pkg/errors"
)

// Location is a point in scene space. Z is the height above the table.
type Location struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance between l and o.
func (l Location) Distance(o Location) float64 {
	dx, dy, dz := l.X-o.X, l.Y-o.Y, l.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Color is an RGBA colour with components in [0,1].
type Color [4]float64

// Object is a single block in the scene.
type Object struct {
	ID        int
	Shape     string
	Color     Color
	Material  string
	Size      float64
	Stackable bool
	Location  Location
}

// State is an ordered collection of objects.
type State struct {
	Objects []Object
}

// New returns a state holding a copy of objs.
func New(objs ...Object) State {
	return State{Objects: slices.Clone(objs)}
}

// Len returns the number of objects.
func (s State) Len() int { return len(s.Objects) }

// Clone returns a deep copy of s. Object holds only value fields, so a slice
// copy is sufficient.
func (s State) Clone() State {
	return State{Objects: slices.Clone(s.Objects)}
}

// IDs returns the object ids in state order.
func (s State) IDs() []int {
	ids := make([]int, len(s.Objects))
	for i, o := range s.Objects {
		ids[i] = o.ID
	}
	return ids
}

// ByID maps each object id to its index in s.Objects.
func (s State) ByID() map[int]int {
	m := make(map[int]int, len(s.Objects))
	for i, o := range s.Objects {
		m[o.ID] = i
	}
	return m
}

// Find returns the object with the given id.
func (s State) Find(id int) (Object, bool) {
	for _, o := range s.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return Object{}, false
}

// MaxHeight returns the largest Z over all objects, or 0 for an empty state.
func (s State) MaxHeight() float64 {
	h := 0.0
	for _, o := range s.Objects {
		h = max(h, o.Location.Z)
	}
	return h
}

// MaxSize returns the largest object size, or 0 for an empty state.
func (s State) MaxSize() float64 {
	m := 0.0
	for _, o := range s.Objects {
		m = max(m, o.Size)
	}
	return m
}

// Equal reports whether s and o hold the same objects in the same order.
func (s State) Equal(o State) bool {
	return slices.Equal(s.Objects, o.Objects)
}

// Validate checks per-object invariants: unique ids, colour components in
// [0,1], a non-negative size and finite coordinates.
func (s State) Validate() error {
	seen := make(map[int]bool, len(s.Objects))
	for _, o := range s.Objects {
		if seen[o.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate object id %d", o.ID)
		}
		seen[o.ID] = true

		for _, c := range o.Color {
			if math.IsNaN(c) || c < 0 || c > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "object %d: colour component %v outside [0,1]", o.ID, c)
			}
		}
		if math.IsNaN(o.Size) || o.Size < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "object %d: negative size %v", o.ID, o.Size)
		}
		for _, v := range []float64{o.Location.X, o.Location.Y, o.Location.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidInput, "object %d: non-finite location %v", o.ID, o.Location)
			}
		}
	}
	return nil
}

// CheckPairing verifies that pre and goal describe the same physical objects:
// equal counts and equal id sets. Order may differ.
func CheckPairing(pre, goal State) error {
	if pre.Len() != goal.Len() {
		return errors.New(errors.ErrCodeConfiguration,
			"pre has %d objects, goal has %d", pre.Len(), goal.Len())
	}

	goalIDs := goal.ByID()
	if len(goalIDs) != goal.Len() {
		return errors.New(errors.ErrCodeConfiguration, "goal state has duplicate object ids")
	}
	preIDs := pre.ByID()
	if len(preIDs) != pre.Len() {
		return errors.New(errors.ErrCodeConfiguration, "pre state has duplicate object ids")
	}

	var missing []int
	for id := range preIDs {
		if _, ok := goalIDs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.New(errors.ErrCodeConfiguration,
			"object ids %v present in pre but not in goal", missing)
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (l Location) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", l.X, l.Y, l.Z)
}
