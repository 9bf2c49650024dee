// Package reactive provides the signal primitive: a mutable, observable
// value container with structural updates and subscriber fan-out.
//
// # Core Types
//
// Signal[T] holds the current value and a set of subscribers:
//
//	quotes := reactive.New([]Quote{}, reactive.WithName("quotes"))
//	id := quotes.Subscribe(func(qs []Quote) { render(qs) })
//
//	// Mutator path: edit a draft, always notifies.
//	quotes.Mutate(produce.Edit(func(d *[]Quote) {
//	    *d = append(*d, q)
//	}))
//
//	// Assignment path: skips storage and notification when the new value
//	// is identical to the current one.
//	quotes.SetValue(loaded)
//
//	quotes.Unsubscribe(id)
//
// Values handed to subscribers are snapshots owned by the signal. They
// must be treated as read-only; use Mutate to change state.
//
// # Notification
//
// Every write notifies the subscribers registered when notification
// begins, exactly once each, in unspecified order. Subscribers run
// synchronously inside the write call. A subscriber that panics aborts the
// remaining notifications of that round and the panic propagates to the
// writer; the stored value is not rolled back.
//
// # Accessors
//
// Accessor[T] is the narrow read/write/subscribe surface. Property and
// AssignProperty expose the same surface by name for tooling that works
// with untyped keys; any other key is inert.
//
// # Thread Safety
//
// Signals may be used from multiple goroutines. Writes are totally
// ordered; no lock is held while mutators, OnUpdate hooks or subscribers
// run, except that a mutator must not write to the signal it is mutating.
package reactive
