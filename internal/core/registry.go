package core

import "sync"

// Registry owns the identity -> connection mapping for the room. At most one
// open connection exists per identity; registering a newer one forcibly
// closes the previous holder.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register inserts c, evicting and closing any previous connection for the
// same identity. Returns whether an eviction occurred (for logging only).
func (r *Registry) Register(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, evicted := r.clients[c.ID]
	if evicted && old != c {
		old.Close()
	}
	r.clients[c.ID] = c
	return evicted
}

// Unregister removes c only if it is still the current holder for its
// identity. A close event for an already-superseded connection must not
// delete the newer connection's entry.
func (r *Registry) Unregister(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.clients[c.ID]
	if !ok || cur != c {
		return false
	}
	delete(r.clients, c.ID)
	return true
}

// Get returns the currently registered connection for an identity.
func (r *Registry) Get(id string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	return c, ok
}

// Size reports the number of open connections.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Snapshot returns every registered connection except the one for excludeID
// (all of them if excludeID is empty), along with the total registry size.
// Callers send to the snapshot outside the lock.
func (r *Registry) Snapshot(excludeID string) ([]*Client, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]*Client, 0, len(r.clients))
	for id, c := range r.clients {
		if excludeID != "" && id == excludeID {
			continue
		}
		targets = append(targets, c)
	}
	return targets, len(r.clients)
}
