package broker

import xlog "go.bryk.io/routebroker/log"

// Option provides a functional-style mechanism to adjust the behavior of a
// new Broker instance. Grounded on the teacher's `sse.StreamOption` pattern.
type Option func(b *Broker) error

// WithPriorities sets the number of priority levels, P, in [1, 32]. Level 0
// is always the highest priority. Required; there is no default, mirroring
// spec.md §7's "zero priority count" invalid-input case.
func WithPriorities(n int) Option {
	return func(b *Broker) error {
		if n <= 0 || n > 32 {
			return ErrInvalidConfig
		}
		b.priorities = n
		return nil
	}
}

// WithCodec sets the topic/copy callbacks used to derive keys from
// payloads and to produce consumer-owned copies. Required; there is no
// default, mirroring spec.md §7's "null callback table" invalid-input case.
func WithCodec(c Codec) Option {
	return func(b *Broker) error {
		if c == nil {
			return ErrInvalidConfig
		}
		b.codec = c
		return nil
	}
}

// WithMaxTopicLength bounds the accepted topic key length. Default 200, per
// spec.md §6. Publishes deriving a longer key are counted as dropped.
func WithMaxTopicLength(n int) Option {
	return func(b *Broker) error {
		if n <= 0 {
			return ErrInvalidConfig
		}
		b.maxTopicLen = n
		return nil
	}
}

// WithLogger sets the log handler for the broker instance. Logs are
// discarded by default.
func WithLogger(logger xlog.Logger) Option {
	return func(b *Broker) error {
		if logger == nil {
			logger = xlog.Discard()
		}
		b.log = logger
		return nil
	}
}
