package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExpand(t *testing.T) {
	req := render.Request{ImagePath: "/out/img.png", AnnotationPath: "/out/ann.json"}
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "tokens",
			args: []string{"--image={image}", "{annotation}"},
			want: []string{"--image=/out/img.png", "/out/ann.json"},
		},
		{
			name: "appended",
			args: []string{"--background"},
			want: []string{"--background", "--output-image", "/out/img.png", "--output-scene", "/out/ann.json"},
		},
		{
			name: "empty",
			args: nil,
			want: []string{"--output-image", "/out/img.png", "--output-scene", "/out/ann.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expand(tt.args, req); !slices.Equal(got, tt.want) {
				t.Errorf("expand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("New(nil) = %v, want CONFIGURATION", err)
	}
	if _, err := New([]string{"definitely-not-a-renderer-xyz"}); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("New(missing) = %v, want CONFIGURATION", err)
	}
}

func TestRenderRunsCommand(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r, err := New([]string{"sh", "-c", `cat > "$2" && printf png > "$1"`, "sh", "{image}", "{annotation}"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	objs := scene.New(scene.Object{ID: 3, Shape: "cube", Size: 0.7, Location: scene.Location{Z: 0.7}})
	req := render.Request{
		Objects:        objs,
		ImagePath:      filepath.Join(dir, "img.png"),
		AnnotationPath: filepath.Join(dir, "ann.json"),
	}
	if err := r.Render(context.Background(), req); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	data, err := os.ReadFile(req.AnnotationPath)
	if err != nil {
		t.Fatal(err)
	}
	got, err := scene.Unmarshal(data)
	if err != nil {
		t.Fatalf("stdin was not scene JSON: %v", err)
	}
	if !got.Equal(objs) {
		t.Errorf("stdin objects = %+v, want %+v", got, objs)
	}
	if _, err := os.Stat(req.ImagePath); err != nil {
		t.Errorf("image not written: %v", err)
	}
}

func TestRenderFailure(t *testing.T) {
	requireShell(t)
	r, err := New([]string{"sh", "-c", "echo boom >&2; exit 3"})
	if err != nil {
		t.Fatal(err)
	}
	err = r.Render(context.Background(), render.Request{ImagePath: "x.png", AnnotationPath: "x.json"})
	if !errors.Is(err, errors.ErrCodeArtifactWrite) {
		t.Fatalf("Render() = %v, want ARTIFACT_WRITE", err)
	}
}
