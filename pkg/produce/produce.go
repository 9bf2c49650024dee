package produce

import "reflect"

// Mutator edits a draft in place.
// Returning a non-nil error aborts the update.
type Mutator[T any] func(draft *T) error

// Edit adapts an infallible in-place edit to a Mutator.
func Edit[T any](fn func(draft *T)) Mutator[T] {
	return func(draft *T) error {
		fn(draft)
		return nil
	}
}

// Apply runs fn against a draft of base and returns the finalized draft.
// Untouched substructure is shared with base; touched substructure is
// freshly allocated. base itself is never modified.
func Apply[T any](base T, fn Mutator[T]) (T, error) {
	draft := Clone(base)
	if panicked, err := call(func() error { return fn(&draft) }); err != nil {
		var zero T
		return zero, &MutationError{Cause: err, Panicked: panicked}
	}
	return finalize(base, draft), nil
}

// Produce runs fn against a draft of base and returns whatever fn returns.
// In-place edits made to the draft are discarded unless they are part of
// the returned value.
func Produce[T any](base T, fn func(draft T) T) (T, error) {
	draft := Clone(base)
	var next T
	panicked, err := call(func() error {
		next = fn(draft)
		return nil
	})
	if err != nil {
		var zero T
		return zero, &MutationError{Cause: err, Panicked: panicked}
	}
	return next, nil
}

// call runs fn and converts a panic into an error.
func call(fn func() error) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked, err = true, panicError(r)
		}
	}()
	return false, fn()
}

// finalize reconciles draft against base and returns the shared result.
func finalize[T any](base, draft T) T {
	r := newReconciler()
	out, _ := r.reconcile(reflect.ValueOf(&base).Elem(), reflect.ValueOf(&draft).Elem())

	var result T
	reflect.ValueOf(&result).Elem().Set(out)
	return result
}
