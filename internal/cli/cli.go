package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmotion/internal/metrics"
	"github.com/matzehuels/stackmotion/pkg/blocks"
	"github.com/matzehuels/stackmotion/pkg/buildinfo"
	"github.com/matzehuels/stackmotion/pkg/checkpoint"
	"github.com/matzehuels/stackmotion/pkg/claim"
	"github.com/matzehuels/stackmotion/pkg/pipeline"
	"github.com/matzehuels/stackmotion/pkg/render"
	"github.com/matzehuels/stackmotion/pkg/render/command"
	"github.com/matzehuels/stackmotion/pkg/render/raster"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stackmotion"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackmotion renders block-world transitions as image sequences",
		Long:         `Stackmotion generates training data: for each transition it samples a pre and a goal arrangement of blocks, plans a lift, translate and lower trajectory between them, and renders every frame. Runs are resumable; rerunning a range only renders what is missing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner assembles a pipeline runner from cfg. The returned cleanup
// releases backend connections.
func (c *CLI) newRunner(cfg Config) (*pipeline.Runner, func(), error) {
	model, err := blocks.New(cfg.Model.blocks())
	if err != nil {
		return nil, nil, err
	}
	renderer, err := newRenderer(cfg.Render)
	if err != nil {
		return nil, nil, err
	}
	claimer, cleanup := newClaimer(cfg.Claim, cfg.Run.Layout(), c.Logger)
	return pipeline.NewRunner(model, renderer, claimer, c.Logger), cleanup, nil
}

func newRenderer(cfg renderConfig) (render.Renderer, error) {
	if cfg.Backend == rendererCommand {
		return command.New(cfg.Command)
	}
	return raster.New(cfg.camera())
}

func newClaimer(cfg claimConfig, layout checkpoint.Layout, logger *log.Logger) (claim.Claimer, func()) {
	switch cfg.Backend {
	case claimFile:
		fc := claim.NewFile(layout, cfg.TTL.Duration)
		logger.Debug("using file claims", "owner", fc.Owner())
		return fc, func() {}
	case claimRedis:
		rc := claim.NewRedisFromAddr(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix, cfg.TTL.Duration)
		logger.Debug("using redis claims", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return rc, func() {
			if err := rc.Close(); err != nil {
				logger.Warn("close redis client", "err", err)
			}
		}
	default:
		return claim.NewNull(), func() {}
	}
}

// startMetrics serves Prometheus metrics until ctx is done. It is a no-op
// when addr is empty.
func startMetrics(ctx context.Context, addr string, logger *log.Logger) {
	if addr == "" {
		return
	}
	m := metrics.New()
	m.Register()
	go func() {
		if err := m.Serve(ctx, addr, logger); err != nil {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
}
