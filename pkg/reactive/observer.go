package reactive

import "time"

// WritePath identifies which write entry point produced a value.
type WritePath string

const (
	// PathMutate is an in-place draft edit via Mutate.
	PathMutate WritePath = "mutate"

	// PathUpdate is a replacement via Update.
	PathUpdate WritePath = "update"

	// PathAssign is a direct assignment via SetValue.
	PathAssign WritePath = "assign"
)

// UpdateEvent is delivered to OnUpdate hooks.
type UpdateEvent[T any] struct {
	// Signal is the signal's name.
	Signal string

	// Key is "value" for assignment writes and empty for mutator writes.
	// Writes of other keys through AssignProperty report that key.
	Key string

	// NewValue is the value being written.
	NewValue T
}

// WriteEvent describes one completed or aborted write for observers.
type WriteEvent struct {
	Signal string
	Path   WritePath

	// Notified is the number of subscribers in the notification round.
	Notified int

	// Skipped is true when an assignment was identical to the current
	// value and nothing was stored or notified.
	Skipped bool

	// Aborted is true when a subscriber panicked during notification.
	Aborted bool

	Start    time.Time
	Duration time.Duration
}

// Observer receives diagnostics from signals. Implementations must be
// safe for concurrent use and must not write to signals.
type Observer interface {
	// Written is called after each write, including skipped assignments
	// and writes aborted by a panicking subscriber.
	Written(ev WriteEvent)

	// MutationFailed is called when a mutator fails. Nothing was stored.
	MutationFailed(signal string, path WritePath, err error)

	// Subscribed is called after a subscriber is added.
	Subscribed(signal string, active int)

	// Unsubscribed is called after a subscriber is removed.
	Unsubscribed(signal string, active int)
}

// noopObserver is used when no observer is configured.
type noopObserver struct{}

func (noopObserver) Written(WriteEvent)                     {}
func (noopObserver) MutationFailed(string, WritePath, error) {}
func (noopObserver) Subscribed(string, int)                 {}
func (noopObserver) Unsubscribed(string, int)               {}
