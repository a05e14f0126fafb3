package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// maxStackDepth bounds how many frames are captured per error; deep
// recursive failures should not produce unbounded traces.
const maxStackDepth = 32

// StackFrame describes a single call site in a captured stack trace.
type StackFrame struct {
	File       string
	LineNumber int
	Function   string
	Package    string
}

// String renders a frame on one line as "file:line package.function".
func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d %s.%s", f.File, f.LineNumber, f.Package, f.Function)
}

// getStack captures the call stack starting `skip` frames above its own
// caller, down to and including the outermost runtime frame.
func getStack(skip int) []StackFrame {
	pc := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2+skip, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	out := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		pkg, fn := splitFunction(frame.Function)
		out = append(out, StackFrame{
			File:       frame.File,
			LineNumber: frame.Line,
			Function:   fn,
			Package:    pkg,
		})
		if !more {
			break
		}
	}
	return out
}

// splitFunction separates a fully qualified runtime function name into its
// package path and bare function/method name.
func splitFunction(full string) (pkg string, name string) {
	name = full
	if i := strings.LastIndex(name, "/"); i >= 0 {
		pkg = name[:i+1]
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		pkg += name[:i]
		name = name[i+1:]
	}
	return pkg, name
}
