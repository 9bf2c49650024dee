package reactive

import (
	"fmt"
	"log/slog"
)

// Option is a functional option for configuring signals.
type Option func(*options)

// options holds configuration for signal behavior.
type options struct {
	// name labels the signal in logs, metrics and the registry.
	name string

	// onUpdate is a func(UpdateEvent[T]) for the signal's T.
	// It is stored untyped because Option is not generic.
	onUpdate any

	observer Observer
	logger   *slog.Logger
}

// WithName sets the diagnostic name of the signal.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for debug output.
// Signals log nothing unless a logger is given.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver attaches a diagnostics observer (metrics, tracing).
// Use instrument.Multi to attach several.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// OnUpdate registers a hook invoked on every write attempt, before
// subscribers are notified. Assignment writes report Key "value" and fire
// even when the write is skipped as identical. The hook cannot cancel
// the write.
//
// The type parameter must match the signal's; New panics otherwise.
//
// Example:
//
//	count := reactive.New(0, reactive.OnUpdate(func(ev reactive.UpdateEvent[int]) {
//	    log.Printf("%s <- %d", ev.Signal, ev.NewValue)
//	}))
func OnUpdate[T any](fn func(UpdateEvent[T])) Option {
	return func(o *options) {
		o.onUpdate = fn
	}
}

// applyOptions applies the given options and returns the resulting config.
func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func onUpdateHook[T any](o options) func(UpdateEvent[T]) {
	if o.onUpdate == nil {
		return nil
	}
	fn, ok := o.onUpdate.(func(UpdateEvent[T]))
	if !ok {
		var zero T
		panic(fmt.Sprintf("reactive: OnUpdate hook type %T does not match signal type %T", o.onUpdate, zero))
	}
	return fn
}
