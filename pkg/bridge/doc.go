// Package bridge binds rendering components to signals.
//
// A Binding subscribes to a signal for the lifetime of a consumer,
// projects the signal's value through a selector and asks the host to
// re-render only when the projection changes:
//
//	b := bridge.Bind(quotes, bridge.Map(func(qs []Quote) int {
//	    return len(qs)
//	}), func(n int) {
//	    view.SetCount(n) // host re-render request
//	})
//	defer b.Close()
//
// Selectors come in two modes. Map projects the value directly. Reduce
// returns a step that is applied to the previous projection, so a
// consumer can fold notifications into local state:
//
//	seen := bridge.Bind(quotes, bridge.Reduce(func(qs []Quote) func(int) int {
//	    return func(prev int) int { return prev + 1 }
//	}), nil)
//
// Selectors are not memoized: every notification re-runs them, and an
// update to an unrelated field yields an equal projection and no render.
//
// Close must be called when the consumer goes away; a Binding that is
// never closed keeps receiving notifications.
package bridge
