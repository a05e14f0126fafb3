package broker

// Codec supplies the producer- and consumer-side callbacks the engine
// needs but has no business implementing itself: deriving a topic key (and
// delete flag) from a raw payload, and producing an owned copy of a
// payload for a draining consumer. This replaces the raw callback tables
// of the C original (`object_broker_topic_gen_cb`, `object_broker_copy_obj_cb`)
// with a small interface, per spec.md §9's "callbacks vs trait/interface"
// note.
type Codec interface {
	// Topic extracts the topic key and delete flag from a raw payload. A
	// zero-length key means the event should be ignored pre-insert (e.g. a
	// broadcast route the broker has no business tracking).
	Topic(payload []byte) (key []byte, isDelete bool)

	// Copy returns a consumer-owned copy of payload. It is called with the
	// broker's lock held (spec.md §5) and must not block; an error is
	// treated as a consumer-side allocation failure (spec.md §7).
	Copy(payload []byte) ([]byte, error)
}

// Kind identifies whether a Notice represents an update or a deletion.
type Kind uint8

const (
	// KindUpdate carries the latest payload for a key.
	KindUpdate Kind = iota
	// KindDelete signals that a key has been removed.
	KindDelete
)

// String returns the textual name of a Kind.
func (k Kind) String() string {
	if k == KindDelete {
		return "delete"
	}
	return "update"
}

// Notice is what GetNext hands back to a draining client: either the
// latest payload for a key (KindUpdate) or a deletion signal (KindDelete).
// Payload is always an owned copy produced by the configured Codec; the
// broker never hands out a record's internal payload slice.
type Notice struct {
	Kind    Kind
	Topic   string
	Payload []byte
}
