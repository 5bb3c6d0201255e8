package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/session"
	"github.com/openroom/openroom-server/internal/store/sqlite"
)

func newTestEngine(t *testing.T, historyLimit int) (*Engine, *session.Memory) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sessions := session.NewMemory()
	logger := zerolog.Nop()

	return NewEngine(NewRegistry(), sessions, st, historyLimit, &logger), sessions
}

func connect(t *testing.T, engine *Engine, sessions *session.Memory, id, name string) *Client {
	t.Helper()

	if err := sessions.Put(context.Background(), id, name, time.Hour); err != nil {
		t.Fatalf("put session: %v", err)
	}
	c := NewClient(id, name)
	engine.HandleOpen(context.Background(), c)
	return c
}

func TestOpenSendsWelcomeAndAnnouncesJoin(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	welcome := mustEvent(t, alice.Events, MessageWelcome)
	if len(welcome.History) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(welcome.History))
	}
	if welcome.Clients != 1 {
		t.Fatalf("expected 1 connected client, got %d", welcome.Clients)
	}

	bob := connect(t, engine, sessions, "b", "bob")
	mustEvent(t, bob.Events, MessageWelcome)

	joined := mustEvent(t, alice.Events, MessageUserJoined)
	if joined.Message.Author != "bob" || joined.Message.AuthorID != "b" {
		t.Fatalf("unexpected join event: %+v", joined.Message)
	}
	if joined.Clients != 2 {
		t.Fatalf("expected 2 connected clients, got %d", joined.Clients)
	}

	// The joining connection must not be told about its own join.
	mustNoEvent(t, bob.Events)
}

func TestMessageBroadcastIncludesAuthorEcho(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	bob := connect(t, engine, sessions, "b", "bob")
	mustEvent(t, alice.Events, MessageWelcome)
	mustEvent(t, bob.Events, MessageWelcome)
	mustEvent(t, alice.Events, MessageUserJoined)

	engine.HandleMessage(context.Background(), bob, "hi")

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, MessageUserMessage)
		if ev.Message.Body != "hi" || ev.Message.AuthorID != "b" || ev.Message.Author != "bob" {
			t.Fatalf("unexpected message event for %s: %+v", c.Name, ev.Message)
		}
		if ev.Message.ID == "" {
			t.Fatalf("persisted message should carry its stored id")
		}
	}
}

func TestEmptyMessageErrorsOnlyToSender(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	bob := connect(t, engine, sessions, "b", "bob")
	mustEvent(t, alice.Events, MessageWelcome)
	mustEvent(t, bob.Events, MessageWelcome)
	mustEvent(t, alice.Events, MessageUserJoined)

	engine.HandleMessage(context.Background(), bob, "   ")

	ev := mustEvent(t, bob.Events, MessageError)
	if ev.Err == nil || ev.Err.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", ev.Err)
	}

	mustNoEvent(t, alice.Events)
	if size := engine.Registry().Size(); size != 2 {
		t.Fatalf("registry should be unaffected, got size %d", size)
	}
}

func TestExpiredSessionRejectsMessage(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	mustEvent(t, alice.Events, MessageWelcome)

	if err := sessions.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	engine.HandleMessage(context.Background(), alice, "hello?")

	ev := mustEvent(t, alice.Events, MessageError)
	if ev.Err == nil || ev.Err.Code != ErrCodeAuth {
		t.Fatalf("expected auth error, got %+v", ev.Err)
	}
}

func TestHistoryReplayIsBoundedAndOldestFirst(t *testing.T) {
	engine, sessions := newTestEngine(t, 2)

	alice := connect(t, engine, sessions, "a", "alice")
	mustEvent(t, alice.Events, MessageWelcome)

	for _, body := range []string{"one", "two", "three"} {
		engine.HandleMessage(context.Background(), alice, body)
		mustEvent(t, alice.Events, MessageUserMessage)
	}

	bob := connect(t, engine, sessions, "b", "bob")
	welcome := mustEvent(t, bob.Events, MessageWelcome)

	if len(welcome.History) != 2 {
		t.Fatalf("expected 2 replayed messages, got %d", len(welcome.History))
	}
	if welcome.History[0].Body != "two" || welcome.History[1].Body != "three" {
		t.Fatalf("expected oldest-first bounded replay, got %q, %q",
			welcome.History[0].Body, welcome.History[1].Body)
	}
	for _, m := range welcome.History {
		if m.Type != MessageUserMessage {
			t.Fatalf("replay must only contain user messages, got %s", m.Type)
		}
	}
}

func TestCloseAnnouncesLeaveToRemaining(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	bob := connect(t, engine, sessions, "b", "bob")
	mustEvent(t, alice.Events, MessageWelcome)
	mustEvent(t, bob.Events, MessageWelcome)
	mustEvent(t, alice.Events, MessageUserJoined)

	engine.HandleClose(bob)

	left := mustEvent(t, alice.Events, MessageUserLeft)
	if left.Message.Author != "bob" {
		t.Fatalf("unexpected leave event: %+v", left.Message)
	}
	if left.Clients != 1 {
		t.Fatalf("expected 1 remaining client, got %d", left.Clients)
	}
}

func TestSupersededCloseKeepsNewerConnectionSilent(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	observer := connect(t, engine, sessions, "o", "observer")
	mustEvent(t, observer.Events, MessageWelcome)

	first := connect(t, engine, sessions, "a", "alice")
	mustEvent(t, first.Events, MessageWelcome)
	mustEvent(t, observer.Events, MessageUserJoined)

	second := connect(t, engine, sessions, "a", "alice")
	mustEvent(t, second.Events, MessageWelcome)
	mustEvent(t, observer.Events, MessageUserJoined)

	select {
	case <-first.Done():
	default:
		t.Fatalf("superseded connection should be closed")
	}

	// The late close of the evicted connection must neither remove the new
	// entry nor announce a departure: alice is still online.
	engine.HandleClose(first)

	mustNoEvent(t, observer.Events)
	if cur, ok := engine.Registry().Get("a"); !ok || cur != second {
		t.Fatalf("newer connection lost after stale close")
	}
}

func TestKickClosesRegisteredConnection(t *testing.T) {
	engine, sessions := newTestEngine(t, 100)

	alice := connect(t, engine, sessions, "a", "alice")
	mustEvent(t, alice.Events, MessageWelcome)

	if !engine.Kick("a") {
		t.Fatalf("expected kick to find the connection")
	}
	select {
	case <-alice.Done():
	case <-time.After(time.Second):
		t.Fatalf("kicked connection was not closed")
	}

	if engine.Kick("ghost") {
		t.Fatalf("kick of unknown identity should report false")
	}
}
