package log

// Composite fans out every call to a list of underlying loggers. Useful to
// send the same structured entries to, say, a stderr logger and an
// in-memory buffer used by tests.
type Composite []Logger

// NewComposite returns a Logger that forwards every call to each of ll in
// order.
func NewComposite(ll ...Logger) Logger {
	return Composite(ll)
}

func (c Composite) each(fn func(Logger)) {
	for _, l := range c {
		fn(l)
	}
}

func (c Composite) Debug(args ...any)          { c.each(func(l Logger) { l.Debug(args...) }) }
func (c Composite) Debugf(f string, a ...any)  { c.each(func(l Logger) { l.Debugf(f, a...) }) }
func (c Composite) Info(args ...any)           { c.each(func(l Logger) { l.Info(args...) }) }
func (c Composite) Infof(f string, a ...any)   { c.each(func(l Logger) { l.Infof(f, a...) }) }
func (c Composite) Warning(args ...any)        { c.each(func(l Logger) { l.Warning(args...) }) }
func (c Composite) Warningf(f string, a ...any) {
	c.each(func(l Logger) { l.Warningf(f, a...) })
}
func (c Composite) Error(args ...any)         { c.each(func(l Logger) { l.Error(args...) }) }
func (c Composite) Errorf(f string, a ...any) { c.each(func(l Logger) { l.Errorf(f, a...) }) }
func (c Composite) Fatal(args ...any)         { c.each(func(l Logger) { l.Fatal(args...) }) }
func (c Composite) Fatalf(f string, a ...any) { c.each(func(l Logger) { l.Fatalf(f, a...) }) }

func (c Composite) WithFields(fields Fields) Logger {
	next := make(Composite, len(c))
	for i, l := range c {
		next[i] = l.WithFields(fields)
	}
	return next
}

func (c Composite) WithField(key string, value any) Logger {
	return c.WithFields(Fields{key: value})
}

func (c Composite) Sub(tags Fields) Logger {
	next := make(Composite, len(c))
	for i, l := range c {
		next[i] = l.Sub(tags)
	}
	return next
}

func (c Composite) SetLevel(lvl Level) { c.each(func(l Logger) { l.SetLevel(lvl) }) }

func (c Composite) Print(level Level, args ...any) {
	c.each(func(l Logger) { l.Print(level, args...) })
}

func (c Composite) Printf(level Level, format string, args ...any) {
	c.each(func(l Logger) { l.Printf(level, format, args...) })
}
