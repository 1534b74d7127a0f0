package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmotion/pkg/buildinfo"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
)

// generateCommand creates the generate command, which runs the pipeline
// over a range of transitions.
func (c *CLI) generateCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize transitions and render their frames",
		Long: `Generate synthesizes pre/goal checkpoints for a range of transitions and
renders every frame of their lift, translate and lower trajectories.

Existing checkpoints are reused and existing images are skipped, so an
interrupted run can simply be started again. Use --claim file or --claim redis
when several workers share an output directory.`,
		Example: `  stackmotion generate -n 10 -f 9 -o output
  stackmotion generate --start 500 -n 500 --claim file
  stackmotion generate --renderer command --render-cmd blender,--background,--python,render.py,--`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runGenerate(cmd, cfg)
		},
	}

	addRunFlags(cmd.Flags(), &flags)
	registerRunCompletions(cmd)
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, cfg Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Debug("build", "version", buildinfo.Version, "commit", buildinfo.Commit, "date", buildinfo.Date)

	runner, cleanup, err := c.newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	startMetrics(ctx, cfg.Metrics.Addr, logger)

	printInfo("Generating transitions %d-%d into %s", cfg.Run.StartIndex, cfg.Run.End()-1, cfg.Run.OutputDir)
	prog := newProgress(logger)
	report, err := runner.Run(ctx, cfg.Run)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return err
	}
	prog.done("run finished", "transitions", len(report.Transitions), "frames", report.Rendered())

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d transitions failed", n, len(report.Transitions))
	}
	if report.Count(pipeline.StatusSkipped) > 0 {
		printNextStep("Skipped transitions are owned by another worker; check later with", "stackmotion status -o "+cfg.Run.OutputDir)
	}
	return nil
}
