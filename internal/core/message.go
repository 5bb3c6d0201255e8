package core

import "time"

// MessageType discriminates the events a client can receive.
type MessageType string

const (
	// MessageWelcome greets a freshly admitted connection and carries history.
	MessageWelcome MessageType = "welcome"
	// MessageUserJoined notifies other clients about a new connection.
	MessageUserJoined MessageType = "user_joined"
	// MessageUserLeft notifies remaining clients about a departed connection.
	MessageUserLeft MessageType = "user_left"
	// MessageUserMessage is a chat message; the only persisted type.
	MessageUserMessage MessageType = "user_message"
	// MessageError reports a failure back to the offending connection only.
	MessageError MessageType = "error"
)

// ChatMessage is the immutable domain record behind every outbound envelope.
// Only user_message records are stored; the other types are synthesized for
// transmission and discarded.
type ChatMessage struct {
	ID        string
	Type      MessageType
	AuthorID  string
	Author    string
	Body      string
	CreatedAt time.Time
}
