package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/quotely/signal/pkg/persist"
	"github.com/quotely/signal/pkg/produce"
	"github.com/quotely/signal/pkg/reactive"
)

// Category represents the type of error.
type Category string

const (
	CategorySignal  Category = "signal"
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryServer  Category = "server"
)

// Location is a position in a file, used for configuration errors.
type Location struct {
	File         string
	Line, Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Column <= 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
}

// SignalError is a coded error with an optional location and hint.
type SignalError struct {
	// Code is a registered error identifier (e.g. "S001").
	Code string

	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location points into a file when the error came from one.
	Location *Location

	// Context holds the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SignalError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SignalError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records a file position and reads the surrounding lines.
func (e *SignalError) WithLocation(file string, line, column int) *SignalError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = sourceWindow(file, line, 2)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *SignalError) WithSuggestion(s string) *SignalError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered detail.
func (e *SignalError) WithDetail(d string) *SignalError {
	e.Detail = d
	return e
}

// Wrap sets the underlying error.
func (e *SignalError) Wrap(err error) *SignalError {
	e.Wrapped = err
	return e
}

// sourceWindow returns the lines of filename within radius of line
// (1-based). Unreadable files yield nil.
func sourceWindow(filename string, line, radius int) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	all := strings.Split(string(data), "\n")
	from := max(line-radius-1, 0)
	to := min(line+radius, len(all))
	if from >= to {
		return nil
	}
	return all[from:to]
}

// New creates a SignalError from a registered code.
func New(code string) *SignalError {
	tpl, known := registry[code]
	if !known {
		return &SignalError{Code: code, Message: "Unknown error"}
	}
	return &SignalError{Code: code, Category: tpl.Category, Message: tpl.Message, Detail: tpl.Detail}
}

// Newf creates an uncoded SignalError with a formatted message.
func Newf(category Category, format string, args ...any) *SignalError {
	return &SignalError{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError converts err to a SignalError. Known causes from the signal
// packages get their own code; anything else gets fallback.
func FromError(err error, fallback string) *SignalError {
	if err == nil {
		return nil
	}
	var se *SignalError
	if stderrors.As(err, &se) {
		return se
	}
	return New(codeFor(err, fallback)).Wrap(err)
}

func codeFor(err error, fallback string) string {
	switch {
	case stderrors.Is(err, reactive.ErrNotFound):
		return "S001"
	case stderrors.Is(err, reactive.ErrTypeMismatch):
		return "S002"
	case stderrors.Is(err, reactive.ErrDuplicateName):
		return "S003"
	case produce.IsMutationError(err):
		return "S004"
	case stderrors.Is(err, persist.ErrNotFound):
		return "P002"
	default:
		return fallback
	}
}
