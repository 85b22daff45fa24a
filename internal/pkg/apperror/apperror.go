package apperror

import (
	"errors"
	"fmt"
)

// Code classifies an application error for transport mapping.
type Code string

const (
	CodeInvalidInterval   Code = "INVALID_INTERVAL"
	CodeSlotUnavailable   Code = "SLOT_UNAVAILABLE"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

// Error is the typed error carried across service boundaries. All errors in
// this taxonomy are recoverable; callers decide whether to retry.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error and returns the receiver.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// New creates a typed error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewInvalidInterval reports a start/end pair that cannot form a slot.
func NewInvalidInterval(message string) *Error {
	return New(CodeInvalidInterval, message)
}

// NewSlotUnavailable reports an interval already taken on a ground.
func NewSlotUnavailable(message string) *Error {
	return New(CodeSlotUnavailable, message)
}

// NewInvalidTransition reports an illegal status change.
func NewInvalidTransition(from, to string) *Error {
	return New(CodeInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to))
}

// NewUnauthorized reports a requester acting on a booking they do not own.
func NewUnauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

// NewNotFound reports an unresolved entity reference.
func NewNotFound(entity, id string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s %s not found", entity, id))
}

// NewInvalidArgument reports malformed caller input such as bad pagination.
func NewInvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// NewConflict reports a store-level race lost at write time.
func NewConflict(message string) *Error {
	return New(CodeConflict, message)
}

// CodeOf extracts the taxonomy code from an error chain, or CodeInternal
// when the error carries no code.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
