package broker

import (
	"context"
	"time"
)

// dispatchPollInterval bounds how long GetNext's internal wait ever blocks
// before re-checking the caller's context, even if no Publish or
// DeleteClient ever broadcasts. This keeps a leaked or slow-to-cancel
// context from wedging a goroutine forever.
const dispatchPollInterval = 1 * time.Second

// GetNext blocks until a notice is available for client, ctx is
// cancelled, or ctx's deadline passes, whichever comes first. Priority
// levels are scanned from 0 (highest) upward; the first queue with an
// unconsumed record wins, so a flood of low-priority updates can never
// starve a single urgent one (spec.md §4.2, §8 law "priority dominance").
//
// A nil, nil return means the deadline elapsed with nothing to deliver.
// A non-nil error either is ErrClientClosed for a deleted client, or is a
// Codec.Copy failure on the record that was about to be delivered; in the
// latter case the cursor has already advanced past it, so the client will
// not be handed the same broken record twice.
func (b *Broker) GetNext(ctx context.Context, client *Client) (*Notice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if client.closed {
		return nil, ErrClientClosed
	}

	for {
		if client.closed {
			return nil, ErrClientClosed
		}
		for p := 0; p < b.priorities; p++ {
			notice, err := b.advance(client, p)
			if notice != nil || err != nil {
				return notice, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, nil
		}

		wait := dispatchPollInterval
		if dl, ok := ctx.Deadline(); ok {
			if remaining := time.Until(dl); remaining < wait {
				wait = remaining
			}
		}
		if wait <= 0 {
			return nil, nil
		}

		timer := time.AfterFunc(wait, client.cond.Broadcast)
		client.cond.Wait()
		timer.Stop()
	}
}

// advance moves client's cursor in queue p past the next record, if any,
// and returns the notice it represents. It returns (nil, nil) when the
// cursor is already caught up to the tail of queue p.
func (b *Broker) advance(client *Client, p int) (*Notice, error) {
	q := b.queues[p]
	cur := client.cursor[p]
	rn := q.firstRecordAfter(cur)
	if rn == nil {
		return nil, nil
	}

	q.unlink(cur)
	q.insertAfter(rn, cur)
	cur.seq = rn.seq

	rec := rn.rec
	if rec.tombstone {
		b.maybeReclaim(p, rn)
		return &Notice{Kind: KindDelete, Topic: rec.key}, nil
	}

	payload, err := b.codec.Copy(rec.payload)
	if err != nil {
		// Treated as the Go analogue of the C original's allocation
		// failure (spec.md §7): counted as dropped, cursor still
		// advances so the client does not re-stall on the same record.
		b.droppedTotal++
		return nil, err
	}
	return &Notice{Kind: KindUpdate, Topic: rec.key, Payload: payload}, nil
}

// minCursorSeq returns the smallest cursor sequence id among live clients
// in queue p, and whether any client exists at all.
func (b *Broker) minCursorSeq(p int) (uint64, bool) {
	min := uint64(0)
	found := false
	for _, c := range b.clients {
		s := c.cursor[p].seq
		if !found || s < min {
			min = s
			found = true
		}
	}
	return min, found
}

// maybeReclaim removes a tombstoned record node from queue p once every
// live client's cursor there has moved past it, i.e. no one can ever ask
// to see it again (spec.md §4.3).
func (b *Broker) maybeReclaim(p int, n *node) {
	if !n.isRecord() || !n.rec.tombstone {
		return
	}
	min, any := b.minCursorSeq(p)
	if !any || min >= n.seq {
		b.queues[p].unlink(n)
		delete(b.index, n.rec.key)
		b.tombstones++
	}
}

// reclaimAll sweeps every queue for tombstoned records that can now be
// removed. Called after a client is deleted, since its departure may be
// the last thing a trailing tombstone was waiting on.
func (b *Broker) reclaimAll() {
	for p, q := range b.queues {
		n := q.head.next
		for n != q.tail {
			next := n.next
			if n.isRecord() {
				b.maybeReclaim(p, n)
			}
			n = next
		}
	}
}
