package errors

import (
	stdErrors "errors"
	"fmt"
)

// New returns a new root error built from e. If e is already an *Error it
// is returned unchanged; any other error or value is wrapped with a fresh
// stack trace captured at the caller.
func New(e any) error {
	if e == nil {
		return nil
	}
	var err, cause error
	switch v := e.(type) {
	case *Error:
		return v
	case error:
		err, cause = v, v
	default:
		err = fmt.Errorf("%v", v)
	}
	return &Error{err: err, cause: cause, frames: getStack(1)}
}

// Errorf builds a new root error from a format string, with a stack trace
// captured at the caller.
func Errorf(format string, args ...any) error {
	return &Error{err: fmt.Errorf(format, args...), frames: getStack(1)}
}

// Wrap returns a new error that prefixes msg onto err's message and keeps
// err as the unwrap cause, with a stack trace captured at the caller. It
// returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{err: err, cause: err, prefix: msg, frames: getStack(1)}
}

// Wrapf is like Wrap but with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target, delegating
// to the standard library.
func Is(err, target error) bool {
	return stdErrors.Is(err, target)
}

// As finds the first error in err's chain that matches target, delegating
// to the standard library.
func As(err error, target any) bool {
	return stdErrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return stdErrors.Unwrap(err)
}
