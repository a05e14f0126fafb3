package errors

import (
	"fmt"
	"runtime/debug"
)

// uncaughtPanic wraps the value recovered from a panicking goroutine.
type uncaughtPanic struct {
	value any
}

func (p uncaughtPanic) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

// FromRecover builds an *Error from the value returned by a bare recover()
// call, capturing the raw goroutine stack dump for later logging. It
// returns nil if src is nil (i.e., no panic occurred).
//
//	defer func() {
//	    if err := errors.FromRecover(recover()); err != nil {
//	        log.Error(err)
//	    }
//	}()
func FromRecover(src any) *Error {
	if src == nil {
		return nil
	}
	return &Error{
		err: uncaughtPanic{value: src},
		frames: []StackFrame{{
			File:     "recovered-panic",
			Function: string(debug.Stack()),
		}},
	}
}
