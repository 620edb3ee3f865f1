// Package apierr defines the error classification returned by the
// orchestrators. Every saga call terminates with exactly one kind.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a terminal orchestration failure.
type Kind int

const (
	// BadRequest - caller or domain state violation, nothing was mutated.
	BadRequest Kind = iota + 1
	// PreconditionFailed - required external identity data is missing,
	// nothing was mutated.
	PreconditionFailed
	// Conflict - idempotency or already-assigned violation, nothing was
	// mutated.
	Conflict
	// Forbidden - authorization violation, nothing was mutated.
	Forbidden
	// Internal - a remote dependency failed mid-saga; compensation has
	// already been attempted when this kind reaches the caller.
	Internal
)

// Error carries a Kind alongside the human readable message and an optional
// wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error without a cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors are
// reported as Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus maps a Kind to its HTTP response code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case BadRequest:
		return http.StatusBadRequest
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
