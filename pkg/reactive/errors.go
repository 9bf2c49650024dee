package reactive

import "errors"

// ErrTypeMismatch is returned when a dynamically typed write carries a
// value that is not assignable to the signal's type.
var ErrTypeMismatch = errors.New("reactive: value type does not match signal type")

// ErrDuplicateName is returned when registering a signal under a name
// already owned by a different signal.
var ErrDuplicateName = errors.New("reactive: signal name already registered")

// ErrUnnamed is returned when registering a signal without a name.
var ErrUnnamed = errors.New("reactive: signal has no name")

// ErrNotFound is returned when a registry lookup fails.
var ErrNotFound = errors.New("reactive: signal not found")
