package trajectory

import (
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// Phases holds the frame count of each leg of a trajectory.
type Phases struct {
	Lift      int
	Translate int
	Lower     int
}

// Split divides a frame budget across the three phases. The remainder of the
// division goes to the translate phase.
func Split(frames int) Phases {
	third := frames / 3
	return Phases{
		Lift:      third,
		Translate: third + frames%3,
		Lower:     third,
	}
}

// Total returns the sum of all phase lengths.
func (p Phases) Total() int { return p.Lift + p.Translate + p.Lower }

// Lerp interpolates elementwise between a and b. At f == 1 it returns b
// exactly so the last frame of a phase lands on its endpoint.
func Lerp(a, b scene.Location, f float64) (scene.Location, error) {
	if err := errors.ValidateFraction(f); err != nil {
		return scene.Location{}, err
	}
	if f == 1 {
		return b, nil
	}
	return scene.Location{
		X: a.X + f*(b.X-a.X),
		Y: a.Y + f*(b.Y-a.Y),
		Z: a.Z + f*(b.Z-a.Z),
	}, nil
}

// Interpolate emits k states moving the active objects from their location in
// from to their location in to. Objects in to are matched by id. Inactive
// objects keep their location in from.
//
// k == 0 yields no states and k == 1 yields a copy of from.
func Interpolate(from, to scene.State, active map[int]bool, k int) ([]scene.State, error) {
	if k < 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "phase length must be >= 0, got %d", k)
	}
	toIdx := to.ByID()
	out := make([]scene.State, 0, k)
	for j := range k {
		f := 0.0
		if k > 1 {
			f = float64(j) / float64(k-1)
		}
		s := from.Clone()
		for i, o := range s.Objects {
			if !active[o.ID] {
				continue
			}
			ti, ok := toIdx[o.ID]
			if !ok {
				return nil, errors.New(errors.ErrCodeConfiguration, "object %d missing from phase target", o.ID)
			}
			loc, err := Lerp(o.Location, to.Objects[ti].Location, f)
			if err != nil {
				return nil, err
			}
			s.Objects[i].Location = loc
		}
		out = append(out, s)
	}
	return out, nil
}
