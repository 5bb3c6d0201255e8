package utils

import "github.com/google/uuid"

// NewMessageID returns a globally unique, roughly time-ordered identifier.
// UUIDv7 embeds a millisecond timestamp, so ids sort close to creation
// order without a separate sequence counter.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Entropy exhaustion is the only failure mode; a random UUID still
		// satisfies uniqueness, just not ordering.
		return uuid.NewString()
	}
	return id.String()
}
