package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
	"github.com/openroom/openroom-server/internal/proto"
	"github.com/openroom/openroom-server/internal/session"
	"github.com/openroom/openroom-server/internal/store/sqlite"
)

type testEnv struct {
	ts       *httptest.Server
	sessions session.Store
	auth     *auth.Service
	jwtCfg   *auth.JWTConfig
	engine   *core.Engine
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewMemory()
	jwtCfg := &auth.JWTConfig{
		Secret: []byte("test-secret-change-me"),
		Issuer: "test",
		TTL:    time.Hour,
	}
	authService := auth.NewService(st, sessions, jwtCfg, time.Hour)

	logger := zerolog.Nop()
	engine := core.NewEngine(core.NewRegistry(), sessions, st, 100, &logger)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.WriteTimeout = time.Second

	server := NewServer(engine, authService, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{
		ts:       ts,
		sessions: sessions,
		auth:     authService,
		jwtCfg:   jwtCfg,
		engine:   engine,
	}
}

// tokenFor opens a session for a display name directly, bypassing the REST
// endpoints, and returns a signed token for it.
func (env *testEnv) tokenFor(t *testing.T, identity, username string) string {
	t.Helper()

	if err := env.sessions.Put(context.Background(), identity, username, time.Hour); err != nil {
		t.Fatalf("put session: %v", err)
	}
	token, err := auth.GenerateToken(env.jwtCfg, identity)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (env *testEnv) wsURL(token string) string {
	url := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func dialWS(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readEnvelope(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Envelope {
	t.Helper()

	var env proto.Envelope
	if err := wsjson.Read(ctx, conn, &env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return env
}

func mustType(t *testing.T, ctx context.Context, conn *websocket.Conn, want string) proto.Envelope {
	t.Helper()

	env := readEnvelope(t, ctx, conn)
	if env.Type != want {
		t.Fatalf("expected %q envelope, got %q (%+v)", want, env.Type, env)
	}
	return env
}
