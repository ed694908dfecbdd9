package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger writes JSON to stdout. Dev runs log at debug with source
// positions; everything else starts at info.
func NewLogger(env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

func NewLoggerTo(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(NewTraceHandler(slog.NewJSONHandler(w, opts))).With("env", env)
}
