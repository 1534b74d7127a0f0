package scene

import (
	"bytes"
	"testing"

	"github.com/matzehuels/stackmotion/pkg/errors"
)

func sampleState() State {
	return New(
		Object{ID: 0, Shape: "cube", Color: Color{0.1, 0.2, 0.3, 1}, Material: "rubber", Size: 0.7, Stackable: true, Location: Location{0, 0, 0.35}},
		Object{ID: 1, Shape: "cylinder", Color: Color{1, 0, 0, 1}, Material: "metal", Size: 0.35, Stackable: false, Location: Location{-1.5, 2.25, 1.05}},
		Object{ID: 5, Shape: "sphere", Color: Color{0, 1, 0.5, 0.25}, Material: "rubber", Size: 0.5, Stackable: false, Location: Location{3, -2, 0.5}},
	)
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleState()
	c := s.Clone()
	c.Objects[0].Location.Z = 99

	if s.Objects[0].Location.Z == 99 {
		t.Error("Clone() should not share object storage")
	}
	if !s.Equal(sampleState()) {
		t.Error("original state was modified")
	}
}

func TestMaxHeightAndSize(t *testing.T) {
	s := sampleState()
	if got := s.MaxHeight(); got != 1.05 {
		t.Errorf("MaxHeight() = %v, want 1.05", got)
	}
	if got := s.MaxSize(); got != 0.7 {
		t.Errorf("MaxSize() = %v, want 0.7", got)
	}
	if got := (State{}).MaxHeight(); got != 0 {
		t.Errorf("empty MaxHeight() = %v, want 0", got)
	}
}

func TestDistance(t *testing.T) {
	a := Location{0, 0, 0}
	b := Location{3, 4, 0}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*State)
		wantErr bool
	}{
		{"valid", func(*State) {}, false},
		{"duplicate id", func(s *State) { s.Objects[1].ID = 0 }, true},
		{"colour above 1", func(s *State) { s.Objects[0].Color[2] = 1.5 }, true},
		{"negative colour", func(s *State) { s.Objects[0].Color[0] = -0.1 }, true},
		{"negative size", func(s *State) { s.Objects[2].Size = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckPairing(t *testing.T) {
	pre := sampleState()

	t.Run("same ids", func(t *testing.T) {
		if err := CheckPairing(pre, pre.Clone()); err != nil {
			t.Errorf("CheckPairing() error = %v", err)
		}
	})

	t.Run("reordered ids", func(t *testing.T) {
		goal := pre.Clone()
		goal.Objects[0], goal.Objects[2] = goal.Objects[2], goal.Objects[0]
		if err := CheckPairing(pre, goal); err != nil {
			t.Errorf("CheckPairing() error = %v", err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		goal := New(pre.Objects[:2]...)
		err := CheckPairing(pre, goal)
		if !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("CheckPairing() error = %v, want CONFIGURATION", err)
		}
	})

	t.Run("id mismatch", func(t *testing.T) {
		goal := pre.Clone()
		goal.Objects[2].ID = 42
		err := CheckPairing(pre, goal)
		if !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("CheckPairing() error = %v, want CONFIGURATION", err)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	s := sampleState()

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !got.Equal(s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err = Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !got.Equal(s) {
		t.Error("Write/Read round trip mismatch")
	}
}

func TestUnmarshalWireFormat(t *testing.T) {
	data := []byte(`{"objects":[{"id":3,"shape":"cube","color":[0.5,0.5,0.5,1],"size":0.7,"material":"metal","stackable":true,"location":[1,2,3]}]}`)
	s, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	o := s.Objects[0]
	if o.ID != 3 || o.Location != (Location{1, 2, 3}) || !o.Stackable || o.Material != "metal" {
		t.Errorf("Unmarshal() = %+v", o)
	}
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"short location", `{"objects":[{"id":0,"color":[0,0,0,1],"location":[1,2]}]}`},
		{"short colour", `{"objects":[{"id":0,"color":[0,0,0],"location":[1,2,3]}]}`},
		{"colour out of range", `{"objects":[{"id":0,"color":[0,0,2,1],"location":[1,2,3]}]}`},
		{"duplicate ids", `{"objects":[{"id":0,"color":[0,0,0,1],"location":[1,2,3]},{"id":0,"color":[0,0,0,1],"location":[1,2,3]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal() should fail")
			}
		})
	}
}
