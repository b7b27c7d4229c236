// Package logging builds the slog logger the CLI hands to the scheduler.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrInvalidOption is returned for an unknown level or format.
var ErrInvalidOption = errors.New("invalid log option")

// Options selects how scheduler diagnostics are logged. They go to stderr
// unless Out is set, so stdout only ever carries the event trace.
type Options struct {
	Level  string // debug, info, warn or error; empty means info
	Format string // text or json; empty means text
	Debug  bool   // overrides Level
	Out    io.Writer
}

// New creates the logger described by o.
func New(o Options) (*slog.Logger, error) {
	level := slog.LevelDebug
	if !o.Debug {
		var err error
		if level, err = ParseLevel(o.Level); err != nil {
			return nil, err
		}
	}

	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(o.Format) {
	case "", "text":
		handler = slog.NewTextHandler(out, opts)
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("%w: unknown log format %q, want text or json", ErrInvalidOption, o.Format)
	}
	return slog.New(handler), nil
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidOption, s)
	}
}
