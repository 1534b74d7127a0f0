// Package blocks is a reference block-world implementation of
// [physics.Model].
//
// Objects stand in columns on a square grid of table cells. An action picks
// a clear object (nothing on top of it) and moves it either onto a free cell
// or onto the top of another column whose top object is stackable. Sizes use
// the half-extent convention: an object of size s resting on the table has
// its centre at height s.
package blocks

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/physics"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// Config controls scene sampling.
type Config struct {
	Objects   int      // objects per scene
	GridSize  int      // cells per grid side
	Spacing   float64  // distance between cell centres
	MaxStack  int      // maximum column height, in objects
	StackProb float64  // probability of stacking while sampling a scene
	Jitter    float64  // half-width of the uniform x/y jitter
	Shapes    []string // shapes to draw from; "sphere" is never stackable
	Materials []string // materials to draw from
	Sizes     []float64
	Seed      uint64
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Objects:   5,
		GridSize:  4,
		Spacing:   1.6,
		MaxStack:  3,
		StackProb: 0.3,
		Jitter:    0.05,
		Shapes:    []string{"cube", "cylinder", "sphere"},
		Materials: []string{"rubber", "metal"},
		Sizes:     []float64{0.35, 0.7},
		Seed:      42,
	}
}

// Validate checks that a scene can always be sampled.
func (c Config) Validate() error {
	switch {
	case c.Objects < 1:
		return errors.New(errors.ErrCodeConfiguration, "objects must be >= 1, got %d", c.Objects)
	case c.GridSize < 1:
		return errors.New(errors.ErrCodeConfiguration, "grid size must be >= 1, got %d", c.GridSize)
	case c.Objects > c.GridSize*c.GridSize:
		return errors.New(errors.ErrCodeConfiguration, "%d objects do not fit on a %dx%d grid", c.Objects, c.GridSize, c.GridSize)
	case c.Spacing <= 0:
		return errors.New(errors.ErrCodeConfiguration, "spacing must be > 0")
	case c.MaxStack < 1:
		return errors.New(errors.ErrCodeConfiguration, "max stack must be >= 1, got %d", c.MaxStack)
	case c.StackProb < 0 || c.StackProb > 1:
		return errors.New(errors.ErrCodeConfiguration, "stack probability %v outside [0,1]", c.StackProb)
	case c.Jitter < 0:
		return errors.New(errors.ErrCodeConfiguration, "jitter must be >= 0")
	case len(c.Shapes) == 0 || len(c.Materials) == 0 || len(c.Sizes) == 0:
		return errors.New(errors.ErrCodeConfiguration, "shapes, materials and sizes must be non-empty")
	}
	for _, s := range c.Sizes {
		if s <= 0 || 2*s > c.Spacing {
			return errors.New(errors.ErrCodeConfiguration, "size %v does not fit spacing %v", s, c.Spacing)
		}
	}
	return nil
}

// Model samples block-world scenes. It is not safe for concurrent use.
type Model struct {
	cfg   Config
	rng   *rand.Rand
	cells []cell
}

type cell struct{ x, y float64 }

// New creates a model from cfg.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	m := &Model{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
	}
	half := float64(cfg.GridSize-1) / 2
	for i := range cfg.GridSize {
		for j := range cfg.GridSize {
			m.cells = append(m.cells, cell{
				x: (float64(i) - half) * cfg.Spacing,
				y: (float64(j) - half) * cfg.Spacing,
			})
		}
	}
	return m, nil
}

// NewScene samples a fresh scene.
func (m *Model) NewScene() scene.State {
	var s scene.State
	for id := range m.cfg.Objects {
		o := m.sampleObject(id)
		tops := m.stackTargets(s, -1)
		free := m.freeCells(s)
		if len(tops) > 0 && (len(free) == 0 || m.rng.Float64() < m.cfg.StackProb) {
			base := s.Objects[tops[m.rng.IntN(len(tops))]]
			o.Location = above(base, o.Size)
		} else {
			c := free[m.rng.IntN(len(free))]
			o.Location = scene.Location{X: c.x, Y: c.y, Z: o.Size}
		}
		s.Objects = append(s.Objects, o)
	}
	return s
}

// RandomAction moves one random clear object to a random legal destination.
func (m *Model) RandomAction(s scene.State) physics.Result {
	movable := m.clearObjects(s)
	m.rng.Shuffle(len(movable), func(i, j int) { movable[i], movable[j] = movable[j], movable[i] })

	for _, idx := range movable {
		o := s.Objects[idx]
		tops := m.stackTargets(s, idx)
		free := m.freeCells(s)
		n := len(tops) + len(free)
		if n == 0 {
			continue
		}

		next := s.Clone()
		pick := m.rng.IntN(n)
		if pick < len(tops) {
			next.Objects[idx].Location = above(s.Objects[tops[pick]], o.Size)
		} else {
			c := free[pick-len(tops)]
			next.Objects[idx].Location = scene.Location{X: c.x, Y: c.y, Z: o.Size}
		}
		return physics.Ok(next)
	}
	return physics.Infeasible(fmt.Sprintf("no legal placement for any of %d clear objects", len(movable)))
}

// Jitter shifts every object by uniform noise in x and y.
func (m *Model) Jitter(s scene.State) scene.State {
	out := s.Clone()
	if m.cfg.Jitter == 0 {
		return out
	}
	for i := range out.Objects {
		out.Objects[i].Location.X += (m.rng.Float64()*2 - 1) * m.cfg.Jitter
		out.Objects[i].Location.Y += (m.rng.Float64()*2 - 1) * m.cfg.Jitter
	}
	return out
}

func (m *Model) sampleObject(id int) scene.Object {
	shape := m.cfg.Shapes[m.rng.IntN(len(m.cfg.Shapes))]
	return scene.Object{
		ID:        id,
		Shape:     shape,
		Color:     palette[m.rng.IntN(len(palette))].rgba,
		Material:  m.cfg.Materials[m.rng.IntN(len(m.cfg.Materials))],
		Size:      m.cfg.Sizes[m.rng.IntN(len(m.cfg.Sizes))],
		Stackable: shape != "sphere",
	}
}

// freeCells returns the cells with no object.
func (m *Model) freeCells(s scene.State) []cell {
	var free []cell
	for _, c := range m.cells {
		if !slices.ContainsFunc(s.Objects, func(o scene.Object) bool { return onCell(o, c) }) {
			free = append(free, c)
		}
	}
	return free
}

// clearObjects returns the indices of objects with nothing on top.
func (m *Model) clearObjects(s scene.State) []int {
	var out []int
	for i := range s.Objects {
		if isTop(s, i) {
			out = append(out, i)
		}
	}
	return out
}

// stackTargets returns indices of column tops that accept another object.
// The object at exclude is skipped, along with whatever it rests on, since
// moving it there would be a no-op.
func (m *Model) stackTargets(s scene.State, exclude int) []int {
	var out []int
	for i, o := range s.Objects {
		if i == exclude || !o.Stackable || !isTop(s, i) {
			continue
		}
		if exclude >= 0 && sameColumn(o, s.Objects[exclude]) {
			continue
		}
		if columnHeight(s, o) >= m.cfg.MaxStack {
			continue
		}
		out = append(out, i)
	}
	return out
}

func above(base scene.Object, size float64) scene.Location {
	return scene.Location{X: base.Location.X, Y: base.Location.Y, Z: base.Location.Z + base.Size + size}
}

const eps = 1e-6

func sameColumn(a, b scene.Object) bool {
	return math.Abs(a.Location.X-b.Location.X) < eps && math.Abs(a.Location.Y-b.Location.Y) < eps
}

func onCell(o scene.Object, c cell) bool {
	return math.Abs(o.Location.X-c.x) < eps && math.Abs(o.Location.Y-c.y) < eps
}

func isTop(s scene.State, i int) bool {
	o := s.Objects[i]
	for j, p := range s.Objects {
		if j != i && sameColumn(o, p) && p.Location.Z > o.Location.Z {
			return false
		}
	}
	return true
}

func columnHeight(s scene.State, o scene.Object) int {
	n := 0
	for _, p := range s.Objects {
		if sameColumn(o, p) {
			n++
		}
	}
	return n
}
