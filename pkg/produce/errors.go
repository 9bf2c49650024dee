package produce

import (
	"errors"
	"fmt"
)

// MutationError is returned when a mutator fails.
// The base value passed to Apply or Produce is unchanged.
type MutationError struct {
	// Cause is the error returned by the mutator, or the recovered panic
	// value converted to an error.
	Cause error

	// Panicked is true when the mutator panicked rather than returning
	// an error.
	Panicked bool
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	if e.Cause == nil {
		return "produce: mutation failed"
	}
	return "produce: mutation failed: " + e.Cause.Error()
}

// Unwrap returns the cause for errors.Is/As support.
func (e *MutationError) Unwrap() error {
	return e.Cause
}

// IsMutationError reports whether err is or wraps a *MutationError.
func IsMutationError(err error) bool {
	var me *MutationError
	return errors.As(err, &me)
}

// panicError converts a recovered panic value to an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
