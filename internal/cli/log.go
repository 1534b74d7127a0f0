// Package cli implements the stackmotion command-line interface.
//
// This package provides commands for generating transition datasets,
// inspecting their progress on disk, previewing trajectories and clearing
// broken checkpoints. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Synthesize checkpoints and render frames for a range
//   - status: Report checkpoint and frame progress
//   - plan: Print the trajectory of one transition
//   - reset: Discard checkpoints (and optionally frames)
//
// # Configuration
//
// generate reads a TOML file (--config, or ~/.config/stackmotion/config.toml)
// with [run], [model], [render], [claim] and [metrics] tables. Flags override
// the file only when set explicitly.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps use "15:04:05.00" so frame
// render times are readable at a glance.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one command-level operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, rounded to milliseconds:
//
//	14:32:01.45 INFO run finished transitions=10 frames=90 elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

// withLogger attaches l to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when a command runs without the root's PersistentPreRun
// (as in tests that call RunE directly).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
