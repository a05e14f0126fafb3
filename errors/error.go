// Package errors provides stack-traced, wrappable error values used
// throughout the broker daemon in place of the standard library's bare
// error strings.
package errors

import (
	"fmt"
)

// Error is an error value that carries the stack frame of its creation
// point plus, optionally, a cause it wraps. It satisfies the standard
// `error` interface and unwraps via `errors.Unwrap`.
type Error struct {
	err    error
	cause  error
	prefix string
	frames []StackFrame
}

// Error returns the message of the underlying error, prefixed if a
// prefix was attached via Wrap/Wrapf.
func (e *Error) Error() string {
	if e.prefix != "" {
		return fmt.Sprintf("%s: %s", e.prefix, e.err.Error())
	}
	return e.err.Error()
}

// Unwrap returns the wrapped cause, if any, supporting `errors.Is`/`errors.As`.
func (e *Error) Unwrap() error {
	return e.cause
}

// Stack returns the captured call stack at the point this error was created.
func (e *Error) Stack() []StackFrame {
	return e.frames
}

// Format implements fmt.Formatter: "%v"/"%s" print the message, "%+v" also
// appends the captured stack trace, one frame per line.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s\n", e.Error())
			for _, f := range e.frames {
				_, _ = fmt.Fprintf(s, "\t%s\n", f.String())
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	}
}
