// Package log provides a small leveled-logging abstraction so the rest of
// the broker daemon is not coupled to a specific logging library. The
// default implementation is backed by zerolog; a Discard implementation is
// available for tests and library-mode use.
package log

import "go.bryk.io/routebroker/metadata"

// Fields carries structured, per-message key/value pairs.
type Fields = metadata.Map

// Level identifies the severity of a log entry.
type Level uint

const (
	// Debug messages are broadly interesting to developers and operators
	// and may include recoverable failures.
	Debug Level = iota
	// Info messages highlight normal progress of the daemon.
	Info
	// Warning messages flag a potential problem that did not prevent the
	// current operation from completing.
	Warning
	// Error messages report a failure that did not crash the daemon.
	Error
	// Fatal messages precede a call to os.Exit(1).
	Fatal
)

// String returns the textual name of a level.
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Logger is the interface every component in the daemon depends on instead
// of a concrete logging library.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)

	// WithFields returns a logger that will include the given fields on
	// its next emitted message.
	WithFields(fields Fields) Logger

	// WithField is a convenience wrapper around WithFields for a single
	// key/value pair.
	WithField(key string, value any) Logger

	// Sub returns a child logger that permanently carries the given tags
	// on every message it emits.
	Sub(tags Fields) Logger

	// SetLevel adjusts the verbosity of the logger; messages below lvl are
	// discarded.
	SetLevel(lvl Level)

	// Print logs a message at an explicit level, useful for bridging
	// third-party libraries that report a level dynamically.
	Print(level Level, args ...any)
	Printf(level Level, format string, args ...any)
}
