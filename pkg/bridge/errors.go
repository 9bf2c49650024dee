package bridge

import "errors"

// ErrClosed is the cause of an AccessError raised by a closed binding.
var ErrClosed = errors.New("bridge: binding is closed")

// AccessError reports use of a binding outside its valid lifetime.
// It is raised with panic: reading a projection that is no longer
// maintained is a programming error, not a condition to handle.
type AccessError struct {
	// Op is the operation attempted ("bind", "value").
	Op string

	// Signal is the name of the bound signal, if known.
	Signal string

	Err error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	msg := "bridge: " + e.Op
	if e.Signal != "" {
		msg += " on " + e.Signal
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AccessError) Unwrap() error {
	return e.Err
}
