package broker

import "sync"

// Client is a single consumer's registration with the broker: one cursor
// node per priority queue, each initially positioned at the head (with
// every record already queued ahead of it), and a condition variable the
// broker broadcasts to on every Publish that changes a queue so a blocked
// GetNext can wake and re-check for new work.
type Client struct {
	name   string
	mu     *sync.Mutex // shared with Broker.mu; Cond needs the same lock
	cond   *sync.Cond
	cursor []*node // one cursor node per priority level
	closed bool
}

// CreateClient registers a new consumer under name, returning an error if
// the name is empty or already taken (spec.md §4.4). The new client's
// cursors start at the head of every queue, so it first observes the
// current state of every record already queued (one notice per live key,
// not the intermediate versions), then every later change.
func (b *Broker) CreateClient(name string) (*Client, error) {
	if name == "" {
		return nil, ErrInvalidClientName
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.clients[name]; exists {
		return nil, ErrClientExists
	}
	c := &Client{
		name:   name,
		mu:     &b.mu,
		cursor: make([]*node, b.priorities),
	}
	c.cond = sync.NewCond(c.mu)
	for p := 0; p < b.priorities; p++ {
		n := &node{cur: c}
		b.queues[p].insertHead(n)
		c.cursor[p] = n
	}
	b.clients[name] = c
	return c, nil
}

// DeleteClient unregisters a client and unlinks its cursors from every
// queue. Removing a cursor can free tombstoned records that were only
// being retained for this client's benefit, so a full reclamation sweep
// follows (spec.md §4.4).
func (b *Broker) DeleteClient(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clients[name]
	if !ok {
		return ErrUnknownClient
	}
	delete(b.clients, name)
	c.closed = true
	for p, n := range c.cursor {
		b.queues[p].unlink(n)
	}
	c.cond.Broadcast()
	b.reclaimAll()
	return nil
}

// Name returns the client's registered name.
func (c *Client) Name() string { return c.name }

// Client returns the named client's handle, or ErrUnknownClient if no
// such client is registered. Useful for transports that lazily create a
// client on first contact and must look it up on subsequent requests.
func (b *Broker) Client(name string) (*Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.clients[name]
	if !ok {
		return nil, ErrUnknownClient
	}
	return c, nil
}
