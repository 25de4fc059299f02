// Package logging builds the slog loggers used by the CLI and server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFile is the log file name used when Options.Dir is set without a file.
const DefaultFile = "app.log"

// Options controls where and how records are written.
type Options struct {
	Level  string
	Format string // "text" or "json"
	Dir    string // when set, records are also appended to Dir/File
	File   string
	Stderr bool
}

// New creates a slog.Logger that writes to the console and, when Dir is set,
// to a log file. The returned closer releases the file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var console io.Writer = os.Stdout
	if opts.Stderr {
		console = os.Stderr
	}

	out := console
	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		name := opts.File
		if name == "" {
			name = DefaultFile
		}
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closer = f
	}

	return slog.New(newHandler(out, opts)), closer, nil
}

// NewConsole creates a console-only logger with the given level.
func NewConsole(level string) *slog.Logger {
	return slog.New(newHandler(os.Stderr, Options{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: LevelFromString(opts.Level)}
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// LevelFromString parses a level name, defaulting to info.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
