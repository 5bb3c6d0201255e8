// Package proto defines the outbound wire format. Every envelope is
// recomputed per recipient: connectedClients is stamped at send time and
// sentByCurrentUser depends on who is receiving it.
package proto

import "time"

// Envelope is the JSON wire form of a chat event.
type Envelope struct {
	Type             string  `json:"type"`
	ID               string  `json:"id"`
	ConnectedClients int     `json:"connectedClients"`
	Message          *string `json:"message"`
	// Messages carries history replay; only set on welcome envelopes.
	Messages          []Envelope `json:"messages,omitempty"`
	SentByCurrentUser bool       `json:"sentByCurrentUser"`
	CreatedAt         time.Time  `json:"createdAt"`
	Username          string     `json:"username"`
	Error             *string    `json:"error"`
}
