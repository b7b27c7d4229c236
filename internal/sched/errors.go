package sched

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

var (
	// ErrAlreadyInitialized is returned by Init while a previous cycle has not been shut down.
	ErrAlreadyInitialized = errors.New("scheduler already initialized")

	// ErrInvalidConfig is returned for a non-positive quantum or an out of range channel count.
	ErrInvalidConfig = errors.New("invalid scheduler config")

	// ErrInvalidArgument is returned by Spawn for a nil body or an out of range priority.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidChannel is returned by Wait and Signal for a channel outside the configured range.
	ErrInvalidChannel = errors.New("invalid io channel")
)

// fatal reports a broken invariant or API contract with the caller's
// location and panics. The scheduler state cannot be trusted afterwards.
func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	attrs := []any{"reason", msg}
	if pc, file, line, ok := runtime.Caller(1); ok {
		fn := "?"
		if f := runtime.FuncForPC(pc); f != nil {
			fn = f.Name()
		}
		attrs = append(attrs, "file", file, "line", line, "func", fn)
	}
	slog.Error("sched: fatal", attrs...)
	panic("sched: " + msg)
}
