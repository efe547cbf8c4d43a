// Package logging provides structured logging setup for deal-analyzer.
package logging

import (
	"io"
	"log/slog"
)

// Setup initializes the default slog logger writing to w.
// Verbose mode uses human-readable text at debug level; otherwise JSON at info.
func Setup(w io.Writer, verbose bool) {
	SetupLevel(w, verbose, slog.LevelInfo)
}

// SetupLevel is Setup with level as the floor for non-verbose output.
// One-shot CLI commands pass slog.LevelWarn to stay quiet.
func SetupLevel(w io.Writer, verbose bool, level slog.Level) {
	slog.SetDefault(New(w, verbose, level))
}

// New builds a logger without installing it as the default.
func New(w io.Writer, verbose bool, level slog.Level) *slog.Logger {
	var handler slog.Handler
	if verbose {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}
