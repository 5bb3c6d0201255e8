package core

// Event is the logical payload delivered to a client's outbound queue.
// Per-recipient wire fields (sentByCurrentUser) are computed later, at write
// time, so the same Event can fan out to every recipient.
type Event struct {
	Message ChatMessage
	// History holds replayed chat messages; only set on welcome events.
	History []ChatMessage
	// Clients is the registry size at the moment the event was produced.
	Clients int
	// Err is set on error events.
	Err *Error
}
