package http

import (
	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/proto"
)

// envelopeFromEvent computes the wire envelope for one specific recipient.
// The same logical event produces different bytes per recipient:
// sentByCurrentUser depends on who is reading it.
func envelopeFromEvent(recipientID string, ev *core.Event) proto.Envelope {
	env := envelope(recipientID, ev.Message, ev.Clients)

	if ev.Err != nil {
		msg := ev.Err.Message
		env.Error = &msg
	}

	if ev.Message.Type == core.MessageWelcome {
		history := make([]proto.Envelope, 0, len(ev.History))
		for _, m := range ev.History {
			history = append(history, envelope(recipientID, m, ev.Clients))
		}
		env.Messages = history
	}

	return env
}

func envelope(recipientID string, m core.ChatMessage, clients int) proto.Envelope {
	var body *string
	if m.Body != "" {
		b := m.Body
		body = &b
	}

	return proto.Envelope{
		Type:             string(m.Type),
		ID:               m.ID,
		ConnectedClients: clients,
		Message:          body,
		// Only a chat message can be "yours"; welcome and join/leave
		// notifications are always attributed to the server.
		SentByCurrentUser: m.Type == core.MessageUserMessage && m.AuthorID == recipientID,
		CreatedAt:         m.CreatedAt,
		Username:          m.Author,
	}
}
