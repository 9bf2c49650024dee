package reactive

import (
	"log/slog"
	"sync"
	"time"

	"github.com/quotely/signal/pkg/produce"
)

// SubscriptionID identifies one subscription on one signal.
// IDs are unique within a signal and never reused.
type SubscriptionID uint64

// Subscriber receives the new value after every write.
type Subscriber[T any] func(value T)

// Signal is an observable value container.
// The value is owned by the signal and only changes through Mutate,
// Update or SetValue.
type Signal[T any] struct {
	name string

	// value is the current signal value.
	value T

	// mu protects value.
	mu sync.RWMutex

	// writeMu serializes writes so they are totally ordered.
	// It is never held while subscribers run.
	writeMu sync.Mutex

	// subs are the subscribers keyed by subscription ID.
	subs map[SubscriptionID]Subscriber[T]

	// lastID is the last issued subscription ID.
	lastID SubscriptionID

	// subMu protects subs and lastID.
	subMu sync.RWMutex

	onUpdate func(UpdateEvent[T])
	observer Observer
	logger   *slog.Logger
}

// New creates a new signal with the given initial value.
func New[T any](initial T, opts ...Option) *Signal[T] {
	o := applyOptions(opts)

	s := &Signal[T]{
		name:     o.name,
		value:    initial,
		subs:     make(map[SubscriptionID]Subscriber[T]),
		onUpdate: onUpdateHook[T](o),
		observer: o.observer,
		logger:   o.logger,
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// NewLazy creates a signal whose initial value is computed by init.
// init runs once, before NewLazy returns.
func NewLazy[T any](init func() T, opts ...Option) *Signal[T] {
	return New(init(), opts...)
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// GetValue returns the current value. It is the Accessor form of Get.
func (s *Signal[T]) GetValue() T {
	return s.Get()
}

// ServerSnapshot returns the value to use for an initial, non-interactive
// render. It is always the current value.
func (s *Signal[T]) ServerSnapshot() T {
	return s.Get()
}

// Name returns the diagnostic name given with WithName.
func (s *Signal[T]) Name() string {
	return s.name
}

// Mutate applies fn to a draft of the current value, stores the result
// and notifies every subscriber, even if fn changed nothing.
// Returns the new value.
//
// If fn fails, Mutate returns a *produce.MutationError; the value is
// unchanged and nobody is notified.
//
// fn runs while writes to s are held, so it may read s but must not
// write to it: a Mutate, Update or SetValue on s from inside fn
// deadlocks. Write from a subscriber instead.
func (s *Signal[T]) Mutate(fn produce.Mutator[T]) (T, error) {
	return s.write(PathMutate, func(current T) (T, error) {
		return produce.Apply(current, fn)
	})
}

// Update replaces the value with whatever fn returns and notifies every
// subscriber. fn receives a draft copy of the current value.
// Returns the new value. Like Mutate, fn must not write to s.
func (s *Signal[T]) Update(fn func(T) T) (T, error) {
	return s.write(PathUpdate, func(current T) (T, error) {
		return produce.Produce(current, fn)
	})
}

// write is the shared mutator path: compute, store, OnUpdate, notify.
func (s *Signal[T]) write(path WritePath, compute func(T) (T, error)) (T, error) {
	start := time.Now()

	s.writeMu.Lock()
	next, err := compute(s.Get())
	if err != nil {
		s.writeMu.Unlock()
		s.logger.Debug("signal mutation failed", "signal", s.name, "path", path, "error", err)
		s.observer.MutationFailed(s.name, path, err)
		var zero T
		return zero, err
	}
	s.store(next)
	s.writeMu.Unlock()

	ev := WriteEvent{Signal: s.name, Path: path, Start: start, Aborted: true}
	defer func() {
		ev.Duration = time.Since(start)
		s.observer.Written(ev)
	}()

	s.fireOnUpdate("", next)
	ev.Notified = s.notify(next)
	ev.Aborted = false
	return next, nil
}

// SetValue assigns v directly. OnUpdate fires first; then, if v is
// identical to the current value (see produce.Identical), nothing is
// stored and nobody is notified. Otherwise v is stored and every
// subscriber is notified.
func (s *Signal[T]) SetValue(v T) {
	start := time.Now()
	s.fireOnUpdate(KeyValue, v)

	ev := WriteEvent{Signal: s.name, Path: PathAssign, Start: start}
	defer func() {
		ev.Duration = time.Since(start)
		s.observer.Written(ev)
	}()

	s.writeMu.Lock()
	if produce.Identical(s.Get(), v) {
		s.writeMu.Unlock()
		ev.Skipped = true
		return
	}
	s.store(v)
	s.writeMu.Unlock()

	ev.Aborted = true
	ev.Notified = s.notify(v)
	ev.Aborted = false
}

// Set is an alias for SetValue.
func (s *Signal[T]) Set(v T) {
	s.SetValue(v)
}

func (s *Signal[T]) store(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

func (s *Signal[T]) fireOnUpdate(key string, v T) {
	if s.onUpdate == nil {
		return
	}
	s.onUpdate(UpdateEvent[T]{Signal: s.name, Key: key, NewValue: v})
}

// notify delivers v to the subscribers registered at this moment.
// Uses copy-before-notify so subscribers may subscribe, unsubscribe or
// write without deadlocking. A panicking subscriber stops the round.
func (s *Signal[T]) notify(v T) int {
	s.subMu.RLock()
	subs := make([]Subscriber[T], 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(v)
	}
	return len(subs)
}

// Subscribe registers fn and returns an ID for Unsubscribe.
// Subscribing the same func twice creates two independent subscriptions.
func (s *Signal[T]) Subscribe(fn Subscriber[T]) SubscriptionID {
	if fn == nil {
		panic("reactive: nil subscriber")
	}

	s.subMu.Lock()
	s.lastID++
	id := s.lastID
	s.subs[id] = fn
	active := len(s.subs)
	s.subMu.Unlock()

	s.logger.Debug("signal subscribed", "signal", s.name, "id", id, "active", active)
	s.observer.Subscribed(s.name, active)
	return id
}

// Unsubscribe removes the subscription with the given ID.
// Returns true if a subscription was removed, false if the ID was unknown
// or already removed.
func (s *Signal[T]) Unsubscribe(id SubscriptionID) bool {
	s.subMu.Lock()
	_, ok := s.subs[id]
	if ok {
		delete(s.subs, id)
	}
	active := len(s.subs)
	s.subMu.Unlock()

	if ok {
		s.logger.Debug("signal unsubscribed", "signal", s.name, "id", id, "active", active)
		s.observer.Unsubscribed(s.name, active)
	}
	return ok
}

// Watch subscribes fn and returns a function that removes it.
// The returned function reports whether it removed the subscription.
func (s *Signal[T]) Watch(fn Subscriber[T]) (cancel func() bool) {
	id := s.Subscribe(fn)
	return func() bool {
		return s.Unsubscribe(id)
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Signal[T]) Subscribers() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// Dispose removes every subscription. The signal stays usable; later
// writes reach only subscribers added after Dispose, and Unsubscribe of
// an earlier ID returns false.
func (s *Signal[T]) Dispose() {
	s.subMu.Lock()
	n := len(s.subs)
	clear(s.subs)
	s.subMu.Unlock()

	if n > 0 {
		s.logger.Debug("signal disposed", "signal", s.name, "dropped", n)
		s.observer.Unsubscribed(s.name, 0)
	}
}
