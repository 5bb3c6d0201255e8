// Package session bridges to the ephemeral key-value store mapping session
// identities to display names. The chat core consumes it read-only; entries
// are written at login and expire on their own.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id has no live entry, either
// because it never existed or because it expired or was revoked.
var ErrNotFound = errors.New("session not found")

// Store maps an opaque session id to a display name with expiry.
type Store interface {
	// Put stores id -> username for ttl.
	Put(ctx context.Context, id, username string, ttl time.Duration) error

	// Resolve returns the display name for id, or ErrNotFound.
	Resolve(ctx context.Context, id string) (string, error)

	// Delete revokes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying store connection.
	Close() error
}
