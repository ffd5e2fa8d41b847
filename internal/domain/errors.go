// Package domain provides the error taxonomy shared by every layer.
package domain

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Sentinel errors used for classification with errors.Is.
var (
	// ErrNotFound indicates a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the caller supplied invalid input.
	ErrValidation = errors.New("validation error")

	// ErrInternal indicates a failure the caller cannot fix.
	ErrInternal = errors.New("internal error")
)

// Error carries a caller-facing message alongside its classification.
// Error() returns only the message so it can be shown as-is.
type Error struct {
	kind  error
	msg   string
	cause error
	stack []byte
}

func newError(kind error, cause error, msg string) *Error {
	var stack []byte
	if cause != nil {
		stack = goerrors.Wrap(cause, 2).Stack()
	} else {
		stack = goerrors.New(msg).Stack()
	}
	return &Error{kind: kind, msg: msg, cause: cause, stack: stack}
}

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, nil, fmt.Sprintf(format, args...))
}

// Validation wraps cause as a validation error with a caller-facing message.
func Validation(cause error, msg string) error {
	return newError(ErrValidation, cause, msg)
}

// NotFoundf returns a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, nil, fmt.Sprintf(format, args...))
}

// Internal wraps cause as an internal error with a caller-facing message.
func Internal(cause error, msg string) error {
	return newError(ErrInternal, cause, msg)
}

// Error returns the caller-facing message.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message returns the message without the cause.
func (e *Error) Message() string { return e.msg }

// Stack returns the stack captured when the error was created.
func (e *Error) Stack() []byte { return e.stack }

// Is matches the sentinel this error was classified as.
func (e *Error) Is(target error) bool { return target == e.kind }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.cause }
