package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

func TestCameraProject(t *testing.T) {
	cam := Camera{Width: 200, Height: 100, Scale: 10, Depth: 0}
	tests := []struct {
		loc    scene.Location
		px, py float64
	}{
		{scene.Location{}, 100, 75},
		{scene.Location{X: 2}, 120, 75},
		{scene.Location{Z: 1}, 100, 65},
		{scene.Location{Y: 5}, 100, 75},
	}
	for _, tt := range tests {
		px, py := cam.Project(tt.loc)
		if px != tt.px || py != tt.py {
			t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.loc, px, py, tt.px, tt.py)
		}
	}
}

func TestCameraBBoxClamped(t *testing.T) {
	cam := Camera{Width: 200, Height: 100, Scale: 10}
	box := cam.BBox(scene.Object{Size: 1, Location: scene.Location{X: 1, Z: 1}})
	if want := [4]int{100, 55, 120, 75}; box != want {
		t.Errorf("BBox() = %v, want %v", box, want)
	}
	edge := cam.BBox(scene.Object{Size: 1, Location: scene.Location{X: -10}})
	if edge[0] != 0 {
		t.Errorf("BBox() xmin = %d, want clamped to 0", edge[0])
	}
}

func TestCameraValidate(t *testing.T) {
	if err := DefaultCamera().Validate(); err != nil {
		t.Errorf("DefaultCamera().Validate() = %v", err)
	}
	if err := (Camera{Width: 10, Height: 10}).Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate() = %v, want CONFIGURATION", err)
	}
}

func TestWriteAnnotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "a.json")
	objs := scene.New(scene.Object{ID: 7, Shape: "sphere", Color: scene.Color{0.1, 0.2, 0.3, 1}, Size: 0.35, Location: scene.Location{X: 1, Y: 2, Z: 0.35}})
	a := Annotate(DefaultCamera(), "/out/image_tr/000001/CLEVR_image_002.png", objs)
	if err := WriteAnnotation(path, a); err != nil {
		t.Fatalf("WriteAnnotation() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["image_filename"] != "CLEVR_image_002.png" {
		t.Errorf("image_filename = %v", raw["image_filename"])
	}
	objects := raw["objects"].([]any)
	first := objects[0].(map[string]any)
	for _, key := range []string{"id", "shape", "color", "material", "size", "stackable", "location", "bbox"} {
		if _, ok := first[key]; !ok {
			t.Errorf("annotation object missing %q", key)
		}
	}
}

func TestFunc(t *testing.T) {
	var got Request
	r := Func(func(_ context.Context, req Request) error {
		got = req
		return nil
	})
	want := Request{ImagePath: "i.png", AnnotationPath: "a.json"}
	if err := r.Render(context.Background(), want); err != nil {
		t.Fatal(err)
	}
	if got.ImagePath != want.ImagePath || got.AnnotationPath != want.AnnotationPath {
		t.Errorf("Func passed %+v, want %+v", got, want)
	}
}
