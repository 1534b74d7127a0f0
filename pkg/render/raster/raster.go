// Package raster renders frames in-process with fogleman/gg.
//
// The output is a flat-shaded oblique view: cubes are squares with a lighter
// top face, cylinders are boxes capped by an ellipse, spheres are discs.
// Metal objects get a specular highlight. Good enough to train layout
// models on, not meant to be photorealistic.
package raster

import (
	"bytes"
	"context"
	"slices"

	"github.com/fogleman/gg"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

// Renderer draws frames with a fixed camera.
type Renderer struct {
	cam        render.Camera
	background scene.Color
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the clear color.
func WithBackground(c scene.Color) Option {
	return func(r *Renderer) { r.background = c }
}

// New creates a raster renderer.
func New(cam render.Camera, opts ...Option) (*Renderer, error) {
	if err := cam.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{cam: cam, background: scene.Color{0.82, 0.82, 0.8, 1}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render writes the annotation, then the PNG.
func (r *Renderer) Render(ctx context.Context, req render.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := render.WriteAnnotation(req.AnnotationPath, render.Annotate(r.cam, req.ImagePath, req.Objects)); err != nil {
		return err
	}

	dc := gg.NewContext(r.cam.Width, r.cam.Height)
	dc.SetRGBA(r.background[0], r.background[1], r.background[2], r.background[3])
	dc.Clear()
	r.drawFloor(dc)
	for _, o := range drawOrder(req.Objects) {
		r.drawObject(dc, o)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "encode %s", req.ImagePath)
	}
	return render.WriteImage(req.ImagePath, buf.Bytes())
}

func (r *Renderer) drawFloor(dc *gg.Context) {
	_, y := r.cam.Project(scene.Location{})
	dc.SetRGBA(0, 0, 0, 0.08)
	dc.DrawRectangle(0, y, float64(r.cam.Width), float64(r.cam.Height)-y)
	dc.Fill()
}

func (r *Renderer) drawObject(dc *gg.Context, o scene.Object) {
	px, py := r.cam.Project(o.Location)
	s := o.Size * r.cam.Scale
	c := o.Color

	dc.SetRGBA(c[0], c[1], c[2], c[3])
	switch o.Shape {
	case "sphere":
		dc.DrawCircle(px, py, s)
		dc.Fill()
	case "cylinder":
		dc.DrawRectangle(px-s, py-s, 2*s, 2*s)
		dc.Fill()
		dc.SetRGBA(lighten(c[0]), lighten(c[1]), lighten(c[2]), c[3])
		dc.DrawEllipse(px, py-s, s, s*0.3)
		dc.Fill()
	default:
		dc.DrawRectangle(px-s, py-s, 2*s, 2*s)
		dc.Fill()
		dc.SetRGBA(lighten(c[0]), lighten(c[1]), lighten(c[2]), c[3])
		dc.DrawRectangle(px-s, py-s, 2*s, s*0.3)
		dc.Fill()
	}

	dc.SetRGBA(0, 0, 0, 0.35)
	dc.SetLineWidth(1)
	switch o.Shape {
	case "sphere":
		dc.DrawCircle(px, py, s)
	default:
		dc.DrawRectangle(px-s, py-s, 2*s, 2*s)
	}
	dc.Stroke()

	if o.Material == "metal" {
		dc.SetRGBA(1, 1, 1, 0.6)
		dc.DrawCircle(px-s*0.4, py-s*0.4, s*0.15)
		dc.Fill()
	}
}

// drawOrder sorts objects back to front, then bottom to top.
func drawOrder(s scene.State) []scene.Object {
	objs := slices.Clone(s.Objects)
	slices.SortStableFunc(objs, func(a, b scene.Object) int {
		switch {
		case a.Location.Y > b.Location.Y:
			return -1
		case a.Location.Y < b.Location.Y:
			return 1
		case a.Location.Z < b.Location.Z:
			return -1
		case a.Location.Z > b.Location.Z:
			return 1
		}
		return 0
	})
	return objs
}

func lighten(v float64) float64 {
	return v + (1-v)*0.35
}
