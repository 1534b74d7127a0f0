package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
)

// rangeFlags selects an output tree and an index range without the rest of
// the generate configuration.
type rangeFlags struct {
	configPath string
	opts       pipeline.Options
}

func addRangeFlags(fs *pflag.FlagSet, f *rangeFlags) {
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML config file")
	fs.IntVar(&f.opts.StartIndex, "start", 0, "first transition index")
	fs.IntVarP(&f.opts.Count, "count", "n", pipeline.DefaultCount, "number of transitions")
	fs.IntVarP(&f.opts.Frames, "frames", "f", pipeline.DefaultFrames, "frames per transition")
	fs.StringVarP(&f.opts.OutputDir, "output", "o", pipeline.DefaultOutputDir, "output root directory")
	fs.StringVar(&f.opts.Prefix, "prefix", "", "artifact file prefix (default CLEVR)")
}

// resolve merges the [run] section of the config file with set flags.
func (f *rangeFlags) resolve(fs *pflag.FlagSet) (pipeline.Options, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.Run
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "start":
			opts.StartIndex = f.opts.StartIndex
		case "count":
			opts.Count = f.opts.Count
		case "frames":
			opts.Frames = f.opts.Frames
		case "output":
			opts.OutputDir = f.opts.OutputDir
		case "prefix":
			opts.Prefix = f.opts.Prefix
		}
	})
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// transitionStatus is one row of the status table.
type transitionStatus struct {
	index      int
	checkpoint checkpoint.Status
	frames     int
}

func (s transitionStatus) complete(total int) bool {
	return s.checkpoint == checkpoint.Present && s.frames == total
}

// statusCommand creates the status command, which reports how far a range
// of transitions has progressed on disk.
func (c *CLI) statusCommand() *cobra.Command {
	var flags rangeFlags
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show checkpoint and frame progress for a range of transitions",
		Long: `Status inspects the output tree without modifying it. For every transition
in the range it reports whether the checkpoint is absent, present or corrupt
and how many frame images exist.

A checkpoint is corrupt when its commit marker exists but the pre or goal
file is missing or no longer matches the recorded digest. Corrupt checkpoints
must be cleared with "stackmotion reset" before the transition can be
generated again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			rows, err := scanStatus(cmd, opts)
			if err != nil {
				return err
			}
			printStatus(rows, opts.Frames, all)
			return nil
		},
	}

	addRangeFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list complete transitions too")
	return cmd
}

func scanStatus(cmd *cobra.Command, opts pipeline.Options) ([]transitionStatus, error) {
	store := checkpoint.NewStore(opts.Layout())
	layout := store.Layout()

	spinner := newSpinnerWithContext(cmd.Context(), "Scanning transitions")
	spinner.Start()
	defer spinner.Stop()

	rows := make([]transitionStatus, 0, opts.Count)
	for i := opts.StartIndex; i < opts.End(); i++ {
		if err := cmd.Context().Err(); err != nil {
			return nil, err
		}
		spinner.Update(fmt.Sprintf("Scanning transitions (%d/%d)", i-opts.StartIndex+1, opts.Count))

		st, err := store.Probe(i)
		if err != nil {
			return nil, err
		}
		n, err := layout.CountFrames(i, opts.Frames)
		if err != nil {
			return nil, err
		}
		rows = append(rows, transitionStatus{index: i, checkpoint: st, frames: n})
	}
	return rows, nil
}
