// Package command renders frames by running an external program once per
// frame, for example Blender with a scene-building script:
//
//	blender --background --python render.py -- --output-image {image} --output-scene {annotation}
//
// The program receives the objects as scene JSON on stdin. The tokens
// {image} and {annotation} in the argument list are replaced with the
// frame's output paths; if neither appears, both are appended as
// "--output-image <path> --output-scene <path>". The program must write the
// annotation before the image.
package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/scene"
)

const (
	imageToken      = "{image}"
	annotationToken = "{annotation}"
)

// Renderer runs argv for each frame.
type Renderer struct {
	argv []string
	env  []string
	dir  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEnv appends environment variables ("KEY=value") for the child process.
func WithEnv(env ...string) Option {
	return func(r *Renderer) { r.env = append(r.env, env...) }
}

// WithDir sets the working directory of the child process.
func WithDir(dir string) Option {
	return func(r *Renderer) { r.dir = dir }
}

// New creates a command renderer. The executable must be on PATH.
func New(argv []string, opts ...Option) (*Renderer, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "render command is empty")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "render command %q not found", argv[0])
	}
	r := &Renderer{argv: argv}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Render runs the command for one frame.
func (r *Renderer) Render(ctx context.Context, req render.Request) error {
	input, err := scene.Marshal(req.Objects)
	if err != nil {
		return err
	}

	args := expand(r.argv[1:], req)
	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "%s: %s", r.argv[0], tail(errBuf.String()))
	}
	return nil
}

// expand substitutes the path tokens, appending flags if none are present.
func expand(args []string, req render.Request) []string {
	out := make([]string, 0, len(args)+4)
	found := false
	for _, a := range args {
		if strings.Contains(a, imageToken) || strings.Contains(a, annotationToken) {
			found = true
		}
		a = strings.ReplaceAll(a, imageToken, req.ImagePath)
		a = strings.ReplaceAll(a, annotationToken, req.AnnotationPath)
		out = append(out, a)
	}
	if !found {
		out = append(out, "--output-image", req.ImagePath, "--output-scene", req.AnnotationPath)
	}
	return out
}

// tail keeps the last few lines of stderr for error messages.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
