package reactive

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Entry is a type-erased view of a registered signal, for tooling that
// handles signals of many types (inspector, persistence, scripts).
type Entry interface {
	Name() string
	Subscribers() int

	// Snapshot returns the current value encoded as JSON.
	Snapshot() ([]byte, error)

	// Property looks up a member by key; see Property.
	Property(key string) (any, bool)

	// AssignJSON decodes raw and assigns it to key; see AssignJSON.
	AssignJSON(key string, raw []byte) error

	// WatchJSON subscribes fn to JSON-encoded values. Values that fail to
	// encode are dropped. The returned func removes the subscription.
	WatchJSON(fn func([]byte)) (cancel func() bool)
}

type entry[T any] struct {
	s *Signal[T]
}

// EntryOf returns the type-erased view of s.
func EntryOf[T any](s *Signal[T]) Entry {
	return entry[T]{s: s}
}

func (e entry[T]) Name() string     { return e.s.Name() }
func (e entry[T]) Subscribers() int { return e.s.Subscribers() }

func (e entry[T]) Snapshot() ([]byte, error) {
	return json.Marshal(e.s.Get())
}

func (e entry[T]) Property(key string) (any, bool) {
	return Property(e.s, key)
}

func (e entry[T]) AssignJSON(key string, raw []byte) error {
	return AssignJSON(e.s, key, raw)
}

func (e entry[T]) WatchJSON(fn func([]byte)) func() bool {
	return e.s.Watch(func(v T) {
		data, err := json.Marshal(v)
		if err != nil {
			e.s.logger.Debug("signal value not encodable", "signal", e.s.name, "error", err)
			return
		}
		fn(data)
	})
}

// Registry holds the canonical signal for each named piece of state.
// A name can be owned by only one signal at a time.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registered
}

type registered struct {
	owner any // *Signal[T], for identity checks
	entry Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registered)}
}

// Register adds s under its name. Registering the same signal twice is a
// no-op; registering a different signal under a taken name fails with
// ErrDuplicateName.
func Register[T any](r *Registry, s *Signal[T]) error {
	name := s.Name()
	if name == "" {
		return ErrUnnamed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[name]; ok {
		if existing.owner == any(s) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.entries[name] = registered{owner: s, entry: EntryOf(s)}
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return reg.entry, nil
}

// Find returns the typed signal registered under name.
// ErrTypeMismatch is returned when the signal holds a different type.
func Find[T any](r *Registry, name string) (*Signal[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s, ok := reg.owner.(*Signal[T])
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %T", ErrTypeMismatch, name, reg.owner)
	}
	return s, nil
}

// Remove drops name from the registry. It does not dispose the signal.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// All returns every entry sorted by name.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, reg.entry)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
