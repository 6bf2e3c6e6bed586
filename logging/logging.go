// ABOUTME: slog logger construction shared by the CLI, pipeline and web surface.
// ABOUTME: Text output by default, JSON on request; verbose lowers the level to debug.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	JSON    bool
	// Level overrides Verbose when set to a recognised name (debug, info, warn, error).
	Level string
}

// New returns a logger writing to w. Verbose enables debug records; json
// selects the JSON handler.
func New(w io.Writer, verbose, json bool) *slog.Logger {
	return NewWithOptions(w, Options{Verbose: verbose, JSON: json})
}

// NewWithOptions returns a logger writing to w configured by opts.
func NewWithOptions(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if l, ok := ParseLevel(opts.Level); ok {
		level = l
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
