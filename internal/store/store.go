// Package store defines the durable persistence contracts: user accounts
// for login and the append-only chat message log replayed to reconnecting
// clients.
package store

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted chat message. AuthorID tags authorship
// only; history is global to the room. Username is captured at append time
// so replay does not depend on the author's session still existing.
type Message struct {
	ID        string
	Type      string
	AuthorID  string
	Username  string
	Body      string
	CreatedAt time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser creates a new user with a hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// MessageStore handles the chat message log.
type MessageStore interface {
	// AppendMessage persists a user message and returns the stored record
	// with its generated id and timestamp.
	AppendMessage(ctx context.Context, authorID, username, body string) (*Message, error)

	// RecentMessages returns at most limit of the newest user messages,
	// ordered oldest first.
	RecentMessages(ctx context.Context, limit int) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
