package log

// discard is a no-op Logger, used as the default value for components that
// accept an optional logger (following the teacher's `log.Discard()`
// pattern: never nil-check a Logger field, always have a safe default).
type discard struct{}

// Discard returns a Logger that drops every message. Safe as a zero-value
// substitute wherever a Logger is required but the caller didn't provide
// one.
func Discard() Logger { return discard{} }

func (discard) Debug(...any)                  {}
func (discard) Debugf(string, ...any)         {}
func (discard) Info(...any)                   {}
func (discard) Infof(string, ...any)          {}
func (discard) Warning(...any)                {}
func (discard) Warningf(string, ...any)       {}
func (discard) Error(...any)                  {}
func (discard) Errorf(string, ...any)         {}
func (discard) Fatal(...any)                  {}
func (discard) Fatalf(string, ...any)         {}
func (discard) WithFields(Fields) Logger      { return discard{} }
func (discard) WithField(string, any) Logger  { return discard{} }
func (discard) Sub(Fields) Logger             { return discard{} }
func (discard) SetLevel(Level)                {}
func (discard) Print(Level, ...any)           {}
func (discard) Printf(Level, string, ...any)  {}
