package sched

import "log/slog"

// options holds configuration for Scheduler creation.
type options struct {
	logger   *slog.Logger
	observer func(StatusEvent)
	guard    PreemptGuard
}

// Option configures a Scheduler.
type Option func(*options)

// WithLogger sets the logger used for lifecycle and dispatch messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers fn to receive every StatusEvent. fn runs on the
// goroutine holding the baton and must not call back into the scheduler.
func WithObserver(fn func(StatusEvent)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithPreemptGuard sets the default guard used when Init is called without
// a Config. InitConfig overrides it with a non-empty Config.PreemptGuard.
func WithPreemptGuard(g PreemptGuard) Option {
	return func(o *options) {
		o.guard = g
	}
}
