package broker

import (
	"sync"

	"go.bryk.io/routebroker/errors"
	xlog "go.bryk.io/routebroker/log"
)

// Broker is a multi-priority publish/subscribe engine. A single producer
// feeds it Publish calls for a stream of topic keys; any number of
// consumers register as clients and drain notices through per-client
// cursors at their own pace. See package doc for the concurrency model.
type Broker struct {
	mu sync.Mutex

	priorities  int
	maxTopicLen int
	codec       Codec
	log         xlog.Logger

	queues  []*queue // one per priority level, index 0 is highest priority
	index   map[string]*record
	clients map[string]*Client

	publishedTotal uint64
	droppedTotal   uint64
	tombstones     uint64
}

// New builds a Broker from the given options. WithPriorities and WithCodec
// are required; all others have defaults.
func New(opts ...Option) (*Broker, error) {
	b := &Broker{
		maxTopicLen: 200,
		log:         xlog.Discard(),
		index:       make(map[string]*record),
		clients:     make(map[string]*Client),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, errors.Wrap(err, "invalid broker option")
		}
	}
	if b.priorities == 0 || b.codec == nil {
		return nil, ErrInvalidConfig
	}
	b.queues = make([]*queue, b.priorities)
	for i := range b.queues {
		b.queues[i] = newQueue(i)
	}
	return b, nil
}

// Close releases broker resources. It fails if clients are still
// registered or live records remain, forcing callers to drain state
// explicitly rather than silently discarding it.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.clients) > 0 || len(b.index) > 0 {
		return ErrNotEmpty
	}
	return nil
}

// Publish ingests a raw payload from the producer. The broker derives the
// topic key and update/delete kind via the configured Codec, then applies
// the state-transition table from spec.md §4.1: a new key is inserted at
// its declared priority, a repeat key is coalesced in place (re-tailed
// with a new sequence id on every resend, update or delete, and moved to a
// new queue only on a strictly higher-priority resend), and a delete for
// an unknown key is a silent no-op.
//
// priority must be in [0, P). A lower number is higher priority; 0 is the
// most urgent. Publish never blocks.
func (b *Broker) Publish(payload []byte, priority int) error {
	if priority < 0 || priority >= b.priorities {
		return errors.Errorf("priority %d out of range [0,%d)", priority, b.priorities)
	}
	key, isDelete := b.codec.Topic(payload)
	if len(key) == 0 {
		return nil
	}
	if len(key) > b.maxTopicLen {
		b.mu.Lock()
		b.droppedTotal++
		b.mu.Unlock()
		return errors.Errorf("topic key exceeds maximum length %d", b.maxTopicLen)
	}
	k := string(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, exists := b.index[k]
	if !exists {
		if isDelete {
			// Deleting a key the broker never saw: nothing to announce.
			return nil
		}
		rec = &record{key: k, payload: cloneBytes(payload), priority: priority}
		b.index[k] = rec
		n := &node{rec: rec}
		b.queues[priority].insertTail(n)
		rec.seq = n.seq
		b.publishedTotal++
		b.wakeAll()
		return nil
	}

	// Existing key: re-tail it in whichever queue it should now live in.
	// Escalation (a strictly higher priority than its current one) moves it
	// to a new queue; anything else re-tails in place. Either way the
	// sequence id always advances, per spec.md §4.1's "increment sequence
	// id on every reinsert, including tombstoning".
	cur := b.findRecordNode(rec)
	target := rec.priority
	if priority < rec.priority {
		target = priority
	}
	b.queues[rec.priority].unlink(cur)
	rec.priority = target
	b.queues[target].insertTail(cur)
	rec.seq = cur.seq
	b.publishedTotal++

	if isDelete {
		rec.tombstone = true
		// No clients at all: nothing will ever observe the tombstone, so it
		// can be reclaimed immediately (spec.md §4.3).
		if len(b.clients) == 0 {
			b.queues[target].unlink(cur)
			delete(b.index, k)
		}
	} else {
		rec.payload = cloneBytes(payload)
		rec.tombstone = false
	}
	b.wakeAll()
	return nil
}

// findRecordNode walks rec's current queue to find the node holding it.
// Records do not keep a direct node pointer because cursors can sit on
// either side of them and relinking happens from the queue, not the
// record; the scan is bounded by queue depth.
func (b *Broker) findRecordNode(rec *record) *node {
	q := b.queues[rec.priority]
	for n := q.head.next; n != q.tail; n = n.next {
		if n.rec == rec {
			return n
		}
	}
	return nil
}

// wakeAll broadcasts to every client's condition variable. Called with the
// broker lock held; Cond.Broadcast does not itself block or release the
// lock, so this is safe.
func (b *Broker) wakeAll() {
	for _, c := range b.clients {
		c.cond.Broadcast()
	}
}
