package broker

import (
	"fmt"
	"io"
)

// Show walks every priority queue head to tail and writes one line per
// node to w: records and client cursors interleaved in their actual list
// order. It holds the broker lock for the duration of the walk, per
// spec.md §4.5, so callers should expect it to emit a small, bounded
// amount of output.
func (b *Broker) Show(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for p, q := range b.queues {
		if _, err := fmt.Fprintf(w, "priority %d (tail=%d):\n", p, q.tailID); err != nil {
			return err
		}
		for n := q.head.next; n != q.tail; n = n.next {
			var err error
			if n.isRecord() {
				_, err = fmt.Fprintf(w, "  record seq=%d topic=%q tombstone=%t\n",
					n.seq, n.rec.key, n.rec.tombstone)
			} else {
				behind := q.tailID - n.seq
				_, err = fmt.Fprintf(w, "  cursor seq=%d client=%q behind=%d\n",
					n.seq, n.cur.name, behind)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary is an aggregate snapshot of broker state, cheap enough to poll
// on a short interval for metrics or a status endpoint.
type Summary struct {
	Priorities     int
	Clients        int
	LiveRecords    int
	PublishedTotal uint64
	DroppedTotal   uint64
	Tombstones     uint64
	PerPriority    []PrioritySummary
}

// PrioritySummary reports queue depth for a single priority level.
type PrioritySummary struct {
	Priority int
	Depth    int // number of live record nodes, excluding cursors
}

// ShowSummary writes a compact, single-pass summary of broker state to w.
// Unlike Show, line count does not scale with queue depth.
func (b *Broker) ShowSummary(w io.Writer) error {
	s := b.Summary()
	if _, err := fmt.Fprintf(w, "clients=%d live_records=%d published=%d dropped=%d tombstones=%d\n",
		s.Clients, s.LiveRecords, s.PublishedTotal, s.DroppedTotal, s.Tombstones); err != nil {
		return err
	}
	for _, ps := range s.PerPriority {
		if _, err := fmt.Fprintf(w, "  priority %d: depth=%d\n", ps.Priority, ps.Depth); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a snapshot of aggregate broker state, suitable for
// periodic polling by a metrics exporter.
func (b *Broker) Summary() Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Summary{
		Priorities:     b.priorities,
		Clients:        len(b.clients),
		LiveRecords:    len(b.index),
		PublishedTotal: b.publishedTotal,
		DroppedTotal:   b.droppedTotal,
		Tombstones:     b.tombstones,
		PerPriority:    make([]PrioritySummary, b.priorities),
	}
	for p, q := range b.queues {
		depth := 0
		for n := q.head.next; n != q.tail; n = n.next {
			if n.isRecord() {
				depth++
			}
		}
		s.PerPriority[p] = PrioritySummary{Priority: p, Depth: depth}
	}
	return s
}
