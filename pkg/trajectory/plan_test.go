package trajectory

import (
	"testing"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

func block(id int, x, y, z float64) scene.Object {
	return scene.Object{ID: id, Shape: "cube", Color: scene.Color{0.5, 0.5, 0.5, 1}, Material: "rubber", Size: 0.5, Stackable: true, Location: scene.Location{X: x, Y: y, Z: z}}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		frames int
		want   Phases
	}{
		{0, Phases{0, 0, 0}},
		{1, Phases{0, 1, 0}},
		{2, Phases{0, 2, 0}},
		{3, Phases{1, 1, 1}},
		{6, Phases{2, 2, 2}},
		{7, Phases{2, 3, 2}},
		{8, Phases{2, 4, 2}},
		{20, Phases{6, 8, 6}},
	}

	for _, tt := range tests {
		got := Split(tt.frames)
		if got != tt.want {
			t.Errorf("Split(%d) = %+v, want %+v", tt.frames, got, tt.want)
		}
		if got.Total() != tt.frames {
			t.Errorf("Split(%d).Total() = %d", tt.frames, got.Total())
		}
	}
}

func TestPlanWorkedExample(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0))
	goal := scene.New(block(0, 5, 0, 0))

	frames, err := Plan(pre, goal, 6, 4, WithActiveThreshold(0.5))
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	want := []scene.Location{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 4},
		{X: 0, Y: 0, Z: 4},
		{X: 5, Y: 0, Z: 4},
		{X: 5, Y: 0, Z: 4},
		{X: 5, Y: 0, Z: 0},
	}
	if len(frames) != len(want) {
		t.Fatalf("Plan() returned %d frames, want %d", len(frames), len(want))
	}
	for j, s := range frames {
		if got := s.Objects[0].Location; got != want[j] {
			t.Errorf("frame %d location = %v, want %v", j, got, want[j])
		}
	}
	if frames[5].Objects[0].Location != goal.Objects[0].Location {
		t.Error("last frame should equal goal location exactly")
	}
}

func TestPlanLength(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0), block(1, 1, 1, 0), block(2, -2, 3, 0.5))
	goal := scene.New(block(0, 3, 0, 0), block(1, 1, 1, 0), block(2, 0, 0, 1))

	for frames := 0; frames <= 31; frames++ {
		got, err := Plan(pre, goal, frames, 6)
		if err != nil {
			t.Fatalf("Plan(F=%d) error: %v", frames, err)
		}
		if len(got) != frames {
			t.Errorf("Plan(F=%d) returned %d states", frames, len(got))
		}
	}
}

func TestPlanInactiveObjectsStayPut(t *testing.T) {
	// Object 1 drifts by 0.3, below the 0.5 threshold.
	pre := scene.New(block(0, 0, 0, 0), block(1, 2, 2, 0))
	goal := scene.New(block(0, 4, 0, 0), block(1, 2.3, 2, 0))

	frames, err := Plan(pre, goal, 12, 5)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	for j, s := range frames {
		if got := s.Objects[1].Location; got != pre.Objects[1].Location {
			t.Errorf("frame %d: inactive object moved to %v", j, got)
		}
	}
}

func TestPlanUsesGoalIDsNotOrder(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0), block(1, 1, 0, 0))
	goal := scene.New(block(1, 1, 0, 0), block(0, 3, 3, 0)) // reversed order

	frames, err := Plan(pre, goal, 3, 2)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	// F=3: [pre, step1, step2]; step2 holds object 0 above its goal.
	got := frames[2].Objects[0].Location
	want := scene.Location{X: 3, Y: 3, Z: 2}
	if got != want {
		t.Errorf("translated location = %v, want %v", got, want)
	}
	if frames[2].Objects[0].ID != 0 {
		t.Error("output should keep pre object order")
	}
}

func TestPlanSmallBudgets(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0))
	goal := scene.New(block(0, 5, 0, 0))

	tests := []struct {
		frames int
		want   []scene.Location
	}{
		{0, nil},
		{1, []scene.Location{{X: 0, Y: 0, Z: 4}}},
		{2, []scene.Location{{X: 0, Y: 0, Z: 4}, {X: 5, Y: 0, Z: 4}}},
		{3, []scene.Location{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 4}, {X: 5, Y: 0, Z: 4}}},
	}

	for _, tt := range tests {
		frames, err := Plan(pre, goal, tt.frames, 4)
		if err != nil {
			t.Fatalf("Plan(F=%d) error: %v", tt.frames, err)
		}
		if len(frames) != len(tt.want) {
			t.Fatalf("Plan(F=%d) returned %d frames, want %d", tt.frames, len(frames), len(tt.want))
		}
		for j := range frames {
			if got := frames[j].Objects[0].Location; got != tt.want[j] {
				t.Errorf("Plan(F=%d) frame %d = %v, want %v", tt.frames, j, got, tt.want[j])
			}
		}
	}
}

func TestPlanDoesNotMutateInputs(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0))
	goal := scene.New(block(0, 5, 0, 0))
	preCopy, goalCopy := pre.Clone(), goal.Clone()

	if _, err := Plan(pre, goal, 9, 4); err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !pre.Equal(preCopy) || !goal.Equal(goalCopy) {
		t.Error("Plan() modified its inputs")
	}
}

func TestPlanErrors(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0))

	tests := []struct {
		name   string
		goal   scene.State
		frames int
		opts   []Option
	}{
		{"negative frames", scene.New(block(0, 5, 0, 0)), -1, nil},
		{"id mismatch", scene.New(block(1, 5, 0, 0)), 6, nil},
		{"count mismatch", scene.New(block(0, 5, 0, 0), block(1, 0, 0, 0)), 6, nil},
		{"negative threshold", scene.New(block(0, 5, 0, 0)), 6, []Option{WithActiveThreshold(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(pre, tt.goal, tt.frames, 4, tt.opts...)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("Plan() error = %v, want CONFIGURATION", err)
			}
		})
	}
}

func TestInterpolateSingleFrame(t *testing.T) {
	from := scene.New(block(0, 0, 0, 0))
	to := scene.New(block(0, 10, 0, 0))
	active := map[int]bool{0: true}

	got, err := Interpolate(from, to, active, 1)
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(from) {
		t.Errorf("Interpolate(k=1) = %+v, want start state", got)
	}

	got, err = Interpolate(from, to, active, 0)
	if err != nil || len(got) != 0 {
		t.Errorf("Interpolate(k=0) = %v, %v; want empty", got, err)
	}

	if _, err := Interpolate(from, to, active, -1); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Interpolate(k=-1) error = %v, want CONFIGURATION", err)
	}
}

func TestInterpolateEvenSpacing(t *testing.T) {
	from := scene.New(block(0, 0, 0, 0))
	to := scene.New(block(0, 0, 0, 8))

	got, err := Interpolate(from, to, map[int]bool{0: true}, 5)
	if err != nil {
		t.Fatalf("Interpolate() error: %v", err)
	}
	for j, s := range got {
		if want := float64(j) * 2; s.Objects[0].Location.Z != want {
			t.Errorf("frame %d Z = %v, want %v", j, s.Objects[0].Location.Z, want)
		}
	}
}

func TestLerpRejectsOutOfRange(t *testing.T) {
	a, b := scene.Location{}, scene.Location{X: 1}
	for _, f := range []float64{-0.1, 1.1} {
		if _, err := Lerp(a, b, f); !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("Lerp(f=%v) error = %v, want CONFIGURATION", f, err)
		}
	}
}

func TestActiveIDs(t *testing.T) {
	pre := scene.New(block(0, 0, 0, 0), block(1, 0, 0, 0), block(2, 0, 0, 0))
	goal := scene.New(block(0, 0.5, 0, 0), block(1, 0.49, 0, 0), block(2, 0, 0, 3))

	got := ActiveIDs(pre, goal, 0.5)
	if !got[0] || got[1] || !got[2] {
		t.Errorf("ActiveIDs() = %v, want {0, 2}", got)
	}
}
