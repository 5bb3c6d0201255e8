package core

import "sync"

// Client is a registered connection as seen by the core layer. It is bound
// to exactly one identity for its whole lifetime.
type Client struct {
	// ID is the session identity the connection was admitted with.
	ID string
	// Name is the display name resolved at admission.
	Name string
	// Events is drained by the transport's write loop.
	Events chan *Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient constructs a client with an initialized outbound queue.
func NewClient(id, name string) *Client {
	if name == "" {
		name = id
	}
	return &Client{
		ID:     id,
		Name:   name,
		Events: make(chan *Event, 16),
		done:   make(chan struct{}),
	}
}

// Close marks the client terminal. Safe to call multiple times; the
// transport watches Done and tears down the underlying connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done is closed once the client has been closed or evicted.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// send enqueues an event without blocking the caller.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
