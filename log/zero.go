package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"go.bryk.io/routebroker/metadata"
)

// ZeroOptions adjusts the behavior of a zerolog-backed Logger.
type ZeroOptions struct {
	// PrettyPrint renders messages as human-readable console lines instead
	// of structured JSON. Intended for local development; production
	// daemons should leave this disabled.
	PrettyPrint bool

	// Sink receives produced messages. Defaults to os.Stderr.
	Sink io.Writer
}

// WithZero returns a Logger backed by the zerolog library.
func WithZero(opts ZeroOptions) Logger {
	if opts.Sink == nil {
		opts.Sink = os.Stderr
	}
	out := opts.Sink
	if opts.PrettyPrint {
		out = zerolog.ConsoleWriter{Out: opts.Sink, TimeFormat: time.RFC3339}
	}
	return &zeroLogger{log: zerolog.New(out).With().Timestamp().Logger()}
}

type zeroLogger struct {
	mu     sync.Mutex
	log    zerolog.Logger
	lvl    Level
	fields *metadata.Set
}

func (z *zeroLogger) SetLevel(lvl Level) {
	z.mu.Lock()
	z.lvl = lvl
	z.mu.Unlock()
}

func (z *zeroLogger) Sub(tags Fields) Logger {
	return &zeroLogger{log: z.log.With().Fields(map[string]any(tags)).Logger(), lvl: z.lvl}
}

func (z *zeroLogger) WithFields(fields Fields) Logger {
	z.mu.Lock()
	if z.fields == nil {
		z.fields = metadata.New()
	}
	z.fields.Load(fields)
	z.mu.Unlock()
	return z
}

func (z *zeroLogger) WithField(key string, value any) Logger {
	return z.WithFields(Fields{key: value})
}

func (z *zeroLogger) takeFields() Fields {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.fields == nil {
		return nil
	}
	f := z.fields.Values()
	z.fields.Clear()
	return f
}

func (z *zeroLogger) event(lvl Level) *zerolog.Event {
	var ev *zerolog.Event
	switch lvl {
	case Debug:
		ev = z.log.Debug()
	case Info:
		ev = z.log.Info()
	case Warning:
		ev = z.log.Warn()
	case Error:
		ev = z.log.Error()
	case Fatal:
		ev = z.log.Fatal()
	default:
		ev = z.log.Info()
	}
	if f := z.takeFields(); f != nil {
		ev = ev.Fields(map[string]any(f))
	}
	return ev
}

func (z *zeroLogger) allowed(lvl Level) bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return lvl >= z.lvl
}

func (z *zeroLogger) Debug(args ...any) {
	if z.allowed(Debug) {
		z.event(Debug).Msg(fmt.Sprint(args...))
	}
}

func (z *zeroLogger) Debugf(format string, args ...any) {
	if z.allowed(Debug) {
		z.event(Debug).Msgf(format, args...)
	}
}

func (z *zeroLogger) Info(args ...any) {
	if z.allowed(Info) {
		z.event(Info).Msg(fmt.Sprint(args...))
	}
}

func (z *zeroLogger) Infof(format string, args ...any) {
	if z.allowed(Info) {
		z.event(Info).Msgf(format, args...)
	}
}

func (z *zeroLogger) Warning(args ...any) {
	if z.allowed(Warning) {
		z.event(Warning).Msg(fmt.Sprint(args...))
	}
}

func (z *zeroLogger) Warningf(format string, args ...any) {
	if z.allowed(Warning) {
		z.event(Warning).Msgf(format, args...)
	}
}

func (z *zeroLogger) Error(args ...any) {
	if z.allowed(Error) {
		z.event(Error).Msg(fmt.Sprint(args...))
	}
}

func (z *zeroLogger) Errorf(format string, args ...any) {
	if z.allowed(Error) {
		z.event(Error).Msgf(format, args...)
	}
}

func (z *zeroLogger) Fatal(args ...any) {
	z.event(Fatal).Msg(fmt.Sprint(args...))
}

func (z *zeroLogger) Fatalf(format string, args ...any) {
	z.event(Fatal).Msgf(format, args...)
}

func (z *zeroLogger) Print(level Level, args ...any) {
	if z.allowed(level) {
		z.event(level).Msg(fmt.Sprint(args...))
	}
}

func (z *zeroLogger) Printf(level Level, format string, args ...any) {
	if z.allowed(level) {
		z.event(level).Msgf(format, args...)
	}
}
