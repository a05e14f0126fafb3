package log

import "go.bryk.io/routebroker/errors"

// Standard loggers available by name, accepted by New to select a backend
// from a string value.
const (
	// Zerolog selects the zerolog-backed implementation.
	Zerolog = "zerolog"
	// None selects the discarding implementation.
	None = "discard"
)

// New returns a ready-to-use Logger for the given backend name. PrettyPrint
// controls human-readable console output where supported.
func New(backend string, prettyPrint bool) (Logger, error) {
	switch backend {
	case "", Zerolog:
		return WithZero(ZeroOptions{PrettyPrint: prettyPrint}), nil
	case None:
		return Discard(), nil
	default:
		return nil, errors.Errorf("unsupported log backend: %s", backend)
	}
}

// ParseLevel maps a textual level name onto a Level value, defaulting to
// Info for an unrecognized or empty value.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return Debug
	case "warning", "warn":
		return Warning
	case "error":
		return Error
	case "fatal":
		return Fatal
	default:
		return Info
	}
}
