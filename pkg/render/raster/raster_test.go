package raster

import (
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

func testScene() scene.State {
	return scene.New(
		scene.Object{ID: 0, Shape: "cube", Color: scene.Color{1, 0, 0, 1}, Material: "rubber", Size: 0.7, Stackable: true, Location: scene.Location{X: -1, Z: 0.7}},
		scene.Object{ID: 1, Shape: "sphere", Color: scene.Color{0, 0, 1, 1}, Material: "metal", Size: 0.35, Location: scene.Location{X: 1, Y: 1, Z: 0.35}},
		scene.Object{ID: 2, Shape: "cylinder", Color: scene.Color{0, 1, 0, 1}, Material: "rubber", Size: 0.35, Stackable: true, Location: scene.Location{X: -1, Z: 1.75}},
	)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cam := render.DefaultCamera()
	r, err := New(cam)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	req := render.Request{
		Objects:        testScene(),
		ImagePath:      filepath.Join(dir, "image_tr", "000000", "CLEVR_image_000.png"),
		AnnotationPath: filepath.Join(dir, "scene_tr", "000000", "CLEVR_annotation_000.json"),
	}
	if err := r.Render(context.Background(), req); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f, err := os.Open(req.ImagePath)
	if err != nil {
		t.Fatalf("image missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != cam.Width || b.Dy() != cam.Height {
		t.Errorf("image size = %dx%d, want %dx%d", b.Dx(), b.Dy(), cam.Width, cam.Height)
	}

	data, err := os.ReadFile(req.AnnotationPath)
	if err != nil {
		t.Fatalf("annotation missing: %v", err)
	}
	var a render.Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("annotation: %v", err)
	}
	if a.ImageFilename != "CLEVR_image_000.png" {
		t.Errorf("image_filename = %q", a.ImageFilename)
	}
	if len(a.Objects) != 3 {
		t.Fatalf("annotation has %d objects, want 3", len(a.Objects))
	}

	entries, _ := os.ReadDir(filepath.Dir(req.ImagePath))
	if len(entries) != 1 {
		t.Errorf("image dir has %d entries, want only the image", len(entries))
	}
}

func TestRenderCanceled(t *testing.T) {
	r, err := New(render.DefaultCamera())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	err = r.Render(ctx, render.Request{
		Objects:        testScene(),
		ImagePath:      filepath.Join(dir, "a.png"),
		AnnotationPath: filepath.Join(dir, "a.json"),
	})
	if err != context.Canceled {
		t.Errorf("Render() = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a.png")); !os.IsNotExist(statErr) {
		t.Error("image written after cancellation")
	}
}

func TestNewRejectsBadCamera(t *testing.T) {
	_, err := New(render.Camera{Width: 0, Height: 10, Scale: 1})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("New() = %v, want CONFIGURATION", err)
	}
}

func TestDrawOrder(t *testing.T) {
	got := drawOrder(testScene())
	want := []int{1, 0, 2}
	for i, o := range got {
		if o.ID != want[i] {
			t.Fatalf("drawOrder ids = %v, want %v", ids(got), want)
		}
	}
}

func ids(objs []scene.Object) []int {
	out := make([]int, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}
