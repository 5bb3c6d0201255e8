package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	username  string
	expiresAt time.Time
}

// Memory is an in-process Store with expiry. Tests use it in place of redis.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Put stores id -> username for ttl.
func (m *Memory) Put(_ context.Context, id, username string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{username: username, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Resolve returns the display name for id, or ErrNotFound.
func (m *Memory) Resolve(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, id)
		return "", ErrNotFound
	}
	return entry.username, nil
}

// Delete revokes a session.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
