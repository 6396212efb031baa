// Package apperr defines the error kinds surfaced by translation operations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for callers that decide how to report it.
type Kind string

const (
	KindNotConfigured      Kind = "NOT_CONFIGURED"
	KindBackendFailure     Kind = "BACKEND_FAILURE"
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"
	KindInvalidArgument    Kind = "INVALID_ARGUMENT"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error is an application error carrying a Kind and an optional cause.
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

// New creates an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches kind and message to err.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: err}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var (
	ErrNoBackend  = New(KindNotConfigured, "no backend configured")
	ErrNoLanguage = New(KindNotConfigured, "no target language")
	ErrNoPreset   = New(KindNotConfigured, "no preset selected")
	ErrLastPreset = New(KindInvariantViolation, "cannot delete last preset")
	ErrInFlight   = New(KindConflict, "translation already in progress")
)
