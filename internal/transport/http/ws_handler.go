package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
)

// WSHandler admits upgrade requests and bridges accepted connections to the
// protocol engine.
type WSHandler struct {
	engine      *core.Engine
	authService *auth.Service
	cfg         *config.Config
	log         *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(engine *core.Engine, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		engine:      engine,
		authService: authService,
		cfg:         cfg,
		log:         logger,
	}
}

// Handle validates the bearer token against the session store before the
// underlying connection is ever opened. Rejections clear any stale auth
// cookie; the identity pair is immutable for the connection's lifetime.
func (h *WSHandler) Handle(c *gin.Context) {
	identity, username, err := h.authService.Admit(c.Request.Context(), bearerToken(c))
	if err != nil {
		h.log.Warn().Err(err).Msg("ws admission rejected")
		clearAuthCookie(c)
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "invalid token"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	conn.SetReadLimit(h.cfg.MaxMessageBytes)
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(identity, username)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	h.engine.HandleOpen(ctx, client)
	defer h.engine.HandleClose(client)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop treats every inbound frame as the raw text body of a chat
// message. Handling errors never escape the engine, so a read error here
// always means the transport itself failed.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		h.engine.HandleMessage(ctx, client, string(data))
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case ev := <-client.Events:
			wctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
			err := wsjson.Write(wctx, conn, envelopeFromEvent(client.ID, ev))
			cancel()
			if err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-client.Done():
			// Evicted by a newer connection for the same identity, or
			// kicked on logout.
			return conn.Close(websocket.StatusNormalClosure, "superseded")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
