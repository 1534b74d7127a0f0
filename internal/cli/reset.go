package cli

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/errors"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
)

// resetCommand creates the reset command, which removes a transition's
// checkpoint so the next run synthesizes it again.
func (c *CLI) resetCommand() *cobra.Command {
	var (
		output string
		prefix string
		frames bool
	)

	cmd := &cobra.Command{
		Use:   "reset <index>...",
		Short: "Discard checkpoints so transitions are synthesized again",
		Long: `Reset removes the pre and goal states of the given transitions. This is the
way out of a corrupt checkpoint.

Rendered frames belong to the old checkpoint; pass --frames to delete them as
well, otherwise the next run keeps the old images and renders only missing
frames from the new trajectory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := checkpoint.Layout{Root: output, Prefix: prefix}
			if err := layout.Validate(); err != nil {
				return err
			}
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			store := checkpoint.NewStore(layout)
			for _, i := range indices {
				if err := store.Discard(i); err != nil {
					return errors.AtTransition(i, err)
				}
				if frames {
					if err := removeFrames(layout, i); err != nil {
						return errors.AtTransition(i, err)
					}
				}
				logger.Debug("reset transition", "index", i, "frames", frames)
				printSuccess("Reset transition %s", StyleNumber.Render(strconv.Itoa(i)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", pipeline.DefaultOutputDir, "output root directory")
	cmd.Flags().StringVar(&prefix, "prefix", checkpoint.DefaultPrefix, "artifact file prefix")
	cmd.Flags().BoolVar(&frames, "frames", false, "also delete rendered images and annotations")
	return cmd
}

func parseIndices(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		i, err := strconv.Atoi(a)
		if err != nil || i < 0 {
			return nil, errors.New(errors.ErrCodeConfiguration, "invalid transition index %q", a)
		}
		out = append(out, i)
	}
	return out, nil
}

// removeFrames deletes the image directory and the annotations of
// transition i.
func removeFrames(layout checkpoint.Layout, i int) error {
	if err := os.RemoveAll(layout.ImageDir(i)); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactWrite, err, "remove images")
	}
	pattern := filepath.Join(layout.SceneDir(i), layout.Prefix+"_annotation_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "glob annotations")
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeArtifactWrite, err, "remove %s", m)
		}
	}
	return nil
}
