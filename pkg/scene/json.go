package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/stackmotion/pkg/errors"
)

type document struct {
	Objects []object `json:"objects"`
}

type object struct {
	ID        int       `json:"id"`
	Shape     string    `json:"shape"`
	Color     []float64 `json:"color"`
	Size      float64   `json:"size"`
	Material  string    `json:"material"`
	Stackable bool      `json:"stackable"`
	Location  []float64 `json:"location"`
}

func (o Object) wire() object {
	return object{
		ID:        o.ID,
		Shape:     o.Shape,
		Color:     o.Color[:],
		Size:      o.Size,
		Material:  o.Material,
		Stackable: o.Stackable,
		Location:  []float64{o.Location.X, o.Location.Y, o.Location.Z},
	}
}

func (w object) object() (Object, error) {
	if len(w.Color) != 4 {
		return Object{}, fmt.Errorf("object %d: color has %d components, want 4", w.ID, len(w.Color))
	}
	if len(w.Location) != 3 {
		return Object{}, fmt.Errorf("object %d: location has %d components, want 3", w.ID, len(w.Location))
	}
	o := Object{
		ID:        w.ID,
		Shape:     w.Shape,
		Size:      w.Size,
		Material:  w.Material,
		Stackable: w.Stackable,
		Location:  Location{X: w.Location[0], Y: w.Location[1], Z: w.Location[2]},
	}
	copy(o.Color[:], w.Color)
	return o, nil
}

// MarshalJSON implements json.Marshaler using the array form for colour and location.
func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	var w object
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := w.object()
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Marshal encodes s as indented JSON.
func Marshal(s State) ([]byte, error) {
	doc := document{Objects: make([]object, len(s.Objects))}
	for i, o := range s.Objects {
		doc.Objects[i] = o.wire()
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal decodes a state and validates it.
func Unmarshal(data []byte) (State, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	s := State{Objects: make([]Object, len(doc.Objects))}
	for i, w := range doc.Objects {
		o, err := w.object()
		if err != nil {
			return State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
		}
		s.Objects[i] = o
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Write encodes s to w.
func Write(w io.Writer, s State) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Read decodes a state from r.
func Read(r io.Reader) (State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return State{}, err
	}
	return Unmarshal(data)
}
