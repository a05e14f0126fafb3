package broker

// record is the broker's internal representation of a single live topic
// key. Exactly one record exists per key known to the broker; the topic
// index always points at it, and it is linked into exactly one priority
// queue at a time (spec invariant 1).
//
// There is no explicit refcount field here, unlike the C original this
// engine is grounded on (see DESIGN.md): a Go consumer never receives a
// pointer into a record, only an owned copy of its payload produced by the
// configured Codec. Once a record is unlinked from its queue and removed
// from the index it is unreachable and the garbage collector reclaims it;
// the "refcount drops to zero" condition from spec.md §3 therefore holds
// automatically.
type record struct {
	key       string // topic key, used to look up and delete from the index
	payload   []byte // current payload, owned by the record
	priority  int    // current priority queue this record lives in
	tombstone bool   // true once deleted but some cursor still trails it
	seq       uint64 // sequence id stamped on the record's current queue position
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
