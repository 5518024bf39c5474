// Package logging builds the process log handler. Output defaults to stderr
// because stdout carries protocol frames on the stdio transport.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ggoodman/candidate-mcp-server/internal/logctx"
)

// TextHandler returns a human-oriented handler. "trace" is debug with
// caller and timestamp reporting; "debug" adds timestamps only.
func TextHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{Level: log.InfoLevel}
	switch strings.ToLower(level) {
	case "trace":
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		opts.ReportTimestamp = true
	case "debug":
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
	case "warn", "warning":
		opts.Level = log.WarnLevel
	case "error":
		opts.Level = log.ErrorLevel
	}
	return log.NewWithOptions(w, opts)
}

// JSONHandler returns a machine-oriented handler at the same levels.
func JSONHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch strings.ToLower(level) {
	case "trace":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	return slog.NewJSONHandler(w, opts)
}

// New returns a logger for format "text" or "json" whose records carry
// request and invocation details from the context.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = TextHandler(level, w)
	case "json":
		h = JSONHandler(level, w)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	return slog.New(logctx.Wrap(h)), nil
}
