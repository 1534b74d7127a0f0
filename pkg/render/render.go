package render

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/matzehuels/stackmotion/internal/fsutil"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// Request describes one frame to render.
type Request struct {
	Objects        scene.State
	ImagePath      string
	AnnotationPath string
}

// Renderer produces the image and annotation for one frame.
type Renderer interface {
	Render(ctx context.Context, req Request) error
}

// Func adapts a plain function to [Renderer].
type Func func(ctx context.Context, req Request) error

// Render calls f.
func (f Func) Render(ctx context.Context, req Request) error { return f(ctx, req) }

// Camera is a fixed oblique projection from world to pixel coordinates.
// Depth (Y) recedes up and to the right.
type Camera struct {
	Width  int
	Height int
	Scale  float64 // pixels per world unit
	Depth  float64 // screen shift per unit of Y, as a fraction of Scale
}

// DefaultCamera matches the CLI's default image size.
func DefaultCamera() Camera {
	return Camera{Width: 480, Height: 320, Scale: 40, Depth: 0.5}
}

// Validate rejects cameras that cannot produce an image.
func (c Camera) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Scale <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "camera scale must be positive")
	}
	return nil
}

// Project maps a world location to pixel coordinates.
func (c Camera) Project(l scene.Location) (px, py float64) {
	const angle = math.Pi / 6
	u := l.X + l.Y*c.Depth*math.Cos(angle)
	v := l.Z + l.Y*c.Depth*math.Sin(angle)
	return float64(c.Width)/2 + u*c.Scale, float64(c.Height)*0.75 - v*c.Scale
}

// BBox returns the pixel box [xmin, ymin, xmax, ymax] of o, clamped to the
// image.
func (c Camera) BBox(o scene.Object) [4]int {
	px, py := c.Project(o.Location)
	r := o.Size * c.Scale
	clamp := func(v float64, hi int) int {
		return int(math.Round(min(max(v, 0), float64(hi))))
	}
	return [4]int{
		clamp(px-r, c.Width), clamp(py-r, c.Height),
		clamp(px+r, c.Width), clamp(py+r, c.Height),
	}
}

// Annotation is the per-frame JSON document.
type Annotation struct {
	ImageFilename string            `json:"image_filename"`
	Objects       []AnnotatedObject `json:"objects"`
}

// AnnotatedObject is an object as seen in one frame.
type AnnotatedObject struct {
	ID        int        `json:"id"`
	Shape     string     `json:"shape"`
	Color     [4]float64 `json:"color"`
	Material  string     `json:"material"`
	Size      float64    `json:"size"`
	Stackable bool       `json:"stackable"`
	Location  [3]float64 `json:"location"`
	BBox      [4]int     `json:"bbox"`
}

// Annotate builds the annotation for objects rendered to imagePath.
func Annotate(cam Camera, imagePath string, objects scene.State) Annotation {
	a := Annotation{
		ImageFilename: filepath.Base(imagePath),
		Objects:       make([]AnnotatedObject, 0, objects.Len()),
	}
	for _, o := range objects.Objects {
		a.Objects = append(a.Objects, AnnotatedObject{
			ID:        o.ID,
			Shape:     o.Shape,
			Color:     o.Color,
			Material:  o.Material,
			Size:      o.Size,
			Stackable: o.Stackable,
			Location:  [3]float64{o.Location.X, o.Location.Y, o.Location.Z},
			BBox:      cam.BBox(o),
		})
	}
	return a
}

// WriteAnnotation writes a as indented JSON to path.
func WriteAnnotation(path string, a Annotation) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode annotation")
	}
	if err := fsutil.WriteFile(path, data); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "write annotation %s", path)
	}
	return nil
}

// WriteImage writes encoded image bytes to path. The file appears under
// its final name only once complete and synced.
func WriteImage(path string, data []byte) error {
	if err := fsutil.WriteFile(path, data); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "write image %s", path)
	}
	return nil
}
