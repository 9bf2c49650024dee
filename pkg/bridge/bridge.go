package bridge

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

// Source is the part of a signal a binding needs.
// *reactive.Signal[T] and every reactive.Accessor[T] satisfy it.
type Source[T any] interface {
	GetValue() T
	Subscribe(fn reactive.Subscriber[T]) reactive.SubscriptionID
	Unsubscribe(id reactive.SubscriptionID) bool
}

// Rerender asks the host to re-render with a new projection. It may
// schedule the work instead of doing it synchronously and may be called
// any number of times.
type Rerender[S any] func(projection S)

// Option configures a binding.
type Option[S any] func(*config[S])

type config[S any] struct {
	equal  func(a, b S) bool
	seed   S
	seeded bool
	logger *slog.Logger
}

// WithEquals sets the comparison that gates re-renders.
// The default is produce.Equal.
func WithEquals[S any](fn func(a, b S) bool) Option[S] {
	return func(c *config[S]) {
		c.equal = fn
	}
}

// WithSeed sets the previous projection seen by the first reducer step.
// Without it the first step sees the source value when that value is an
// S, and the zero S otherwise.
func WithSeed[S any](seed S) Option[S] {
	return func(c *config[S]) {
		c.seed = seed
		c.seeded = true
	}
}

// WithLogger sets the logger for bind/close debug output.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(c *config[S]) {
		c.logger = logger
	}
}

// Binding is a live subscription from one consumer to one signal.
type Binding[T, S any] struct {
	src    Source[T]
	sel    Selector[T, S]
	render Rerender[S]
	equal  func(a, b S) bool
	name   string
	logger *slog.Logger

	// mu protects current and serializes projection updates.
	mu      sync.Mutex
	current S

	id        reactive.SubscriptionID
	closed    atomic.Bool
	closeOnce sync.Once

	notifications atomic.Uint64
	renders       atomic.Uint64
}

// Bind subscribes to src and computes the initial projection
// synchronously. render is not called for the initial projection; it is
// called after each notification whose projection differs from the last
// one. render may be nil.
//
// Bind panics with *AccessError if src or sel is nil.
func Bind[T, S any](src Source[T], sel Selector[T, S], render Rerender[S], opts ...Option[S]) *Binding[T, S] {
	if src == nil || sel == nil {
		panic(&AccessError{Op: "bind", Err: errors.New("nil source or selector")})
	}

	var cfg config[S]
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.equal == nil {
		cfg.equal = produce.Equal[S]
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	b := &Binding[T, S]{
		src:    src,
		sel:    sel,
		render: render,
		equal:  cfg.equal,
		logger: cfg.logger,
	}
	if named, ok := src.(interface{ Name() string }); ok {
		b.name = named.Name()
	}

	// Hold mu across subscribe and the first projection so a concurrent
	// notification waits for the initial state.
	b.mu.Lock()
	b.id = src.Subscribe(b.receive)
	initial := src.GetValue()
	seed := cfg.seed
	if v, ok := any(initial).(S); ok && !cfg.seeded {
		seed = v
	}
	b.current = sel(initial).apply(seed)
	b.mu.Unlock()

	b.logger.Debug("binding opened", "signal", b.name, "id", b.id)
	return b
}

// Consumer binds the whole value of src, re-rendering with every value
// that differs from the previous one.
func Consumer[T any](src Source[T], render Rerender[T], opts ...Option[T]) *Binding[T, T] {
	return Bind(src, Identity[T](), render, opts...)
}

// receive is the subscriber installed on the signal.
func (b *Binding[T, S]) receive(v T) {
	if b.closed.Load() {
		return
	}
	b.notifications.Add(1)

	b.mu.Lock()
	prev := b.current
	next := b.sel(v).apply(prev)
	changed := !b.equal(prev, next)
	b.current = next
	b.mu.Unlock()

	if !changed {
		return
	}
	b.renders.Add(1)
	if b.render != nil {
		b.render(next)
	}
}

// Value returns the current projection.
// It panics with *AccessError after Close.
func (b *Binding[T, S]) Value() S {
	if b.closed.Load() {
		panic(&AccessError{Op: "value", Signal: b.name, Err: ErrClosed})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Source returns the bound signal.
func (b *Binding[T, S]) Source() Source[T] {
	return b.src
}

// Notifications returns how many notifications the binding has received.
func (b *Binding[T, S]) Notifications() uint64 {
	return b.notifications.Load()
}

// Renders returns how many notifications changed the projection.
func (b *Binding[T, S]) Renders() uint64 {
	return b.renders.Load()
}

// Closed reports whether Close has been called.
func (b *Binding[T, S]) Closed() bool {
	return b.closed.Load()
}

// Close unsubscribes from the signal. Only the first call has an effect;
// it is safe even if the signal has already been disposed.
func (b *Binding[T, S]) Close() {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		removed := b.src.Unsubscribe(b.id)
		b.logger.Debug("binding closed", "signal", b.name, "id", b.id, "removed", removed)
	})
}
