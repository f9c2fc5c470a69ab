// Where: internal/command/logging.go
// What: Diagnostic logger setup.
// Why: Operator output goes through ui; structured logs go to stderr for debugging and CI.
package command

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/poruru-code/akm-cli/internal/meta"
	"github.com/poruru-code/akm-cli/internal/version"
)

type loggingOptions struct {
	JSON  bool
	Debug bool
}

// setupLogger returns a logger tagged with a fresh run_id. Text logs default to
// warnings only so they do not interleave with the operator output.
func setupLogger(w io.Writer, opts loggingOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.JSON {
		level = slog.LevelInfo
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With(
		"service", meta.AppName,
		"version", version.GetVersion(),
		"run_id", uuid.NewString(),
	)
}
