// Package apperr defines the error-kind taxonomy shared by the Query
// Surface, Section Editor, and Tool Dispatcher (spec.md §7), so every layer
// above internal/project can classify a failure the same way without
// inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the named failure categories spec.md §7 enumerates.
type Kind string

const (
	NotFound        Kind = "not_found"
	InvalidArgument Kind = "invalid_argument"
	Stale           Kind = "stale"
	IOError         Kind = "io_error"
	ParseError      Kind = "parse_error"
	Cycle           Kind = "cycle"
	Conflict        Kind = "conflict"
	ServerBusy      Kind = "server_busy"
)

// Error pairs a Kind with a message and, optionally, an original cause. It
// is what every Query Surface, Section Editor, and Tool Dispatcher failure
// ultimately is, so the dispatcher can always recover a Kind without type
// assertions on ad hoc error values.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error carrying cause as its detail, the way io_error and
// parse_error surface the original OS/parse failure.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, and
// io_error otherwise — every unclassified failure still gets a kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IOError
}
