package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/session"
	"github.com/openroom/openroom-server/internal/store"
	"github.com/openroom/openroom-server/internal/utils"
)

// Engine drives the per-connection event lifecycle: welcome and history
// replay on open, message fan-out, and leave notifications on close. All
// errors raised while handling a connection's input are converted into an
// error event for that connection and go no further.
type Engine struct {
	registry     *Registry
	sessions     session.Store
	messages     store.MessageStore
	historyLimit int
	log          *zerolog.Logger
}

// NewEngine constructs the protocol engine around an explicitly owned
// registry.
func NewEngine(registry *Registry, sessions session.Store, messages store.MessageStore, historyLimit int, logger *zerolog.Logger) *Engine {
	return &Engine{
		registry:     registry,
		sessions:     sessions,
		messages:     messages,
		historyLimit: historyLimit,
		log:          logger,
	}
}

// Registry exposes the engine's registry for live-count queries.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// HandleOpen registers an admitted connection, replays recent history in a
// welcome event, and announces the join to everyone else.
func (e *Engine) HandleOpen(ctx context.Context, c *Client) {
	history, err := e.recentHistory(ctx)
	if err != nil {
		// Degrade to an empty replay rather than refusing the connection.
		e.log.Error().Err(err).Str("client_id", c.ID).Msg("fetch history")
		history = nil
	}

	if evicted := e.registry.Register(c); evicted {
		e.log.Info().Str("client_id", c.ID).Msg("client already connected, superseding old connection")
	}
	e.log.Info().Str("client_id", c.ID).Str("username", c.Name).Msg("client connected")

	c.send(&Event{
		Message: e.ephemeral(MessageWelcome, c),
		History: history,
		Clients: e.registry.Size(),
	})

	e.broadcast(e.ephemeral(MessageUserJoined, c), c.ID)
}

// HandleMessage validates and persists an inbound chat message, then
// broadcasts it to every registered connection including the author. The
// author's client renders the broadcast echo; there is no optimistic copy.
func (e *Engine) HandleMessage(ctx context.Context, c *Client, body string) {
	if strings.TrimSpace(body) == "" {
		e.relayError(c, NewValidationError("you must provide a message"))
		return
	}

	if _, err := e.sessions.Resolve(ctx, c.ID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			e.relayError(c, NewAuthError("you must be logged in to send a message"))
			return
		}
		e.log.Error().Err(err).Str("client_id", c.ID).Msg("resolve session")
		e.relayError(c, NewServerError("failed to verify session"))
		return
	}

	saved, err := e.messages.AppendMessage(ctx, c.ID, c.Name, body)
	if err != nil {
		e.log.Error().Err(err).Str("client_id", c.ID).Msg("append message")
		e.relayError(c, NewServerError("failed to save message"))
		return
	}

	e.broadcast(fromStored(saved), "")
}

// HandleClose unregisters the connection and, if it was still the current
// holder for its identity, announces the departure. A superseded connection
// closing late announces nothing: the identity is still online.
func (e *Engine) HandleClose(c *Client) {
	c.Close()
	if !e.registry.Unregister(c) {
		e.log.Debug().Str("client_id", c.ID).Msg("stale close for superseded connection")
		return
	}
	e.log.Info().Str("client_id", c.ID).Msg("client disconnected")

	e.broadcast(e.ephemeral(MessageUserLeft, c), c.ID)
}

// Kick closes the registered connection for an identity, if any. Used on
// logout; the transport tears the socket down and HandleClose runs as usual.
func (e *Engine) Kick(id string) bool {
	c, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	c.Close()
	return true
}

// broadcast snapshots the registry and sends outside the lock. Recipients
// registered after the snapshot do not see the event.
func (e *Engine) broadcast(msg ChatMessage, excludeID string) {
	targets, size := e.registry.Snapshot(excludeID)
	ev := &Event{Message: msg, Clients: size}
	for _, t := range targets {
		t.send(ev)
	}
}

// relayError delivers an error event to the offending connection only.
func (e *Engine) relayError(c *Client, cerr *Error) {
	c.send(&Event{
		Message: e.ephemeral(MessageError, c),
		Clients: e.registry.Size(),
		Err:     cerr,
	})
}

// ephemeral synthesizes a transmission-only record attributed to c.
func (e *Engine) ephemeral(t MessageType, c *Client) ChatMessage {
	return ChatMessage{
		ID:        utils.NewMessageID(),
		Type:      t,
		AuthorID:  c.ID,
		Author:    c.Name,
		CreatedAt: time.Now().UTC(),
	}
}

func (e *Engine) recentHistory(ctx context.Context) ([]ChatMessage, error) {
	stored, err := e.messages.RecentMessages(ctx, e.historyLimit)
	if err != nil {
		return nil, err
	}
	history := make([]ChatMessage, 0, len(stored))
	for _, m := range stored {
		history = append(history, fromStored(m))
	}
	return history, nil
}

func fromStored(m *store.Message) ChatMessage {
	return ChatMessage{
		ID:        m.ID,
		Type:      MessageType(m.Type),
		AuthorID:  m.AuthorID,
		Author:    m.Username,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
