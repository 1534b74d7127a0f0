package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/stackmotion/pkg/errors"
)

// DefaultPrefix is the artifact file prefix.
const DefaultPrefix = "CLEVR"

const (
	sceneDir = "scene_tr"
	imageDir = "image_tr"

	// noFrame fills the frame slot of per-transition files.
	noFrame = "---"
)

// Layout maps transition and frame indices to artifact paths.
type Layout struct {
	Root   string
	Prefix string
}

// NewLayout returns a layout rooted at root with the default prefix.
func NewLayout(root string) Layout {
	return Layout{Root: root, Prefix: DefaultPrefix}
}

// Validate checks the root and prefix.
func (l Layout) Validate() error {
	if err := errors.ValidateOutputDir(l.Root); err != nil {
		return err
	}
	return errors.ValidatePrefix(l.Prefix)
}

// SceneDir returns the per-transition scene directory.
func (l Layout) SceneDir(i int) string {
	return filepath.Join(l.Root, sceneDir, transitionKey(i))
}

// ImageDir returns the per-transition image directory.
func (l Layout) ImageDir(i int) string {
	return filepath.Join(l.Root, imageDir, transitionKey(i))
}

// PrePath returns the path of the serialized pre state.
func (l Layout) PrePath(i int) string {
	return filepath.Join(l.SceneDir(i), l.name("pre", noFrame, "json"))
}

// GoalPath returns the path of the serialized goal state.
func (l Layout) GoalPath(i int) string {
	return filepath.Join(l.SceneDir(i), l.name("suc", noFrame, "json"))
}

// CommitPath returns the path of the commit marker. It is written after
// both states, so its presence is what makes a checkpoint exist.
func (l Layout) CommitPath(i int) string {
	return filepath.Join(l.SceneDir(i), l.name("commit", noFrame, "json"))
}

// ClaimPath returns the path of the advisory claim file.
func (l Layout) ClaimPath(i int) string {
	return filepath.Join(l.SceneDir(i), l.name("claim", noFrame, "json"))
}

// AnnotationPath returns the path of frame j's annotation.
func (l Layout) AnnotationPath(i, j int) string {
	return filepath.Join(l.SceneDir(i), l.name("annotation", frameKey(j), "json"))
}

// ImagePath returns the path of frame j's rendered image.
func (l Layout) ImagePath(i, j int) string {
	return filepath.Join(l.ImageDir(i), l.name("image", frameKey(j), "png"))
}

// Ensure creates the scene and image directories of transition i.
func (l Layout) Ensure(i int) error {
	for _, dir := range []string{l.SceneDir(i), l.ImageDir(i)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeArtifactWrite, err, "create %s", dir)
		}
	}
	return nil
}

// FrameDone reports whether frame j of transition i already has an image.
func (l Layout) FrameDone(i, j int) (bool, error) {
	return exists(l.ImagePath(i, j))
}

// CountFrames returns how many of the first frames images exist.
func (l Layout) CountFrames(i, frames int) (int, error) {
	n := 0
	for j := range frames {
		ok, err := l.FrameDone(i, j)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (l Layout) name(kind, frame, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", l.Prefix, kind, frame, ext)
}

func transitionKey(i int) string { return fmt.Sprintf("%06d", i) }

func frameKey(j int) string { return fmt.Sprintf("%03d", j) }

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
