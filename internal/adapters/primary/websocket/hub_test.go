package websocket

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	snapshot *ports.SummarySnapshot
	err      error
}

func (s stubSource) Latest() (*ports.SummarySnapshot, error) {
	return s.snapshot, s.err
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, uuid.New(), "ops@example.com", hub.logger)
}

func receive(t *testing.T, c *Client) domain.Event {
	t.Helper()

	select {
	case event, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newTestHub(t)
	a, b := newTestClient(hub), newTestClient(hub)

	hub.Register <- a
	hub.Register <- b
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, hub.IsSessionConnected(a.SessionID))

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventSummaryUpdated, Generation: 3}))

	assert.Equal(t, uint64(3), receive(t, a).Generation)
	assert.Equal(t, uint64(3), receive(t, b).Generation)
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub(t)
	c := newTestClient(hub)

	hub.Register <- c
	hub.Unregister <- c
	hub.Unregister <- c

	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)
	assert.False(t, hub.IsSessionConnected(c.SessionID))
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := newTestHub(t)
	slow := newTestClient(hub)
	hub.Register <- slow

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.trySend(domain.Event{Type: domain.EventPong}))
	}

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventSummaryUpdated, Generation: 1}))

	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, slow.trySend(domain.Event{Type: domain.EventPong}))
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	c := newTestClient(hub)
	hub.Register <- c
	hub.Stop()
	hub.Stop()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestClient_HandleIncomingMessage(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("ping", func(t *testing.T) {
		c := newTestClient(hub)
		c.handleIncomingMessage([]byte(`{"type":"PING"}`))

		assert.Equal(t, domain.EventPong, receive(t, c).Type)
	})

	t.Run("request summary", func(t *testing.T) {
		snapshot := &ports.SummarySnapshot{Summary: domain.Aggregate(nil), Generation: 9}
		hub.SetSnapshotSource(stubSource{snapshot: snapshot})
		c := newTestClient(hub)

		c.handleIncomingMessage([]byte(`{"type":"REQUEST_SUMMARY"}`))

		event := receive(t, c)
		assert.Equal(t, domain.EventSummaryUpdated, event.Type)
		assert.Equal(t, uint64(9), event.Generation)
		assert.Same(t, snapshot, event.Payload)
	})

	t.Run("request summary before first refresh", func(t *testing.T) {
		hub.SetSnapshotSource(stubSource{err: errors.New("not yet")})
		c := newTestClient(hub)

		c.handleIncomingMessage([]byte(`{"type":"REQUEST_SUMMARY"}`))

		assert.Empty(t, c.Send)
	})

	t.Run("unknown and malformed messages are ignored", func(t *testing.T) {
		c := newTestClient(hub)

		c.handleIncomingMessage([]byte(`{"type":"SUBSCRIBE"}`))
		c.handleIncomingMessage([]byte(`not json`))

		assert.Empty(t, c.Send)
	})
}

func TestHub_SetKeepalive(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	hub.SetKeepalive(time.Second, 500*time.Millisecond)
	ping, pong := hub.keepalive()
	assert.Equal(t, defaultPingPeriod, ping, "ping must be shorter than pong wait")
	assert.Equal(t, defaultPongWait, pong)

	hub.SetKeepalive(time.Second, 2*time.Second)
	c := newTestClient(hub)
	assert.Equal(t, time.Second, c.pingPeriod)
	assert.Equal(t, 2*time.Second, c.pongWait)
}

func TestHub_DisconnectSession(t *testing.T) {
	hub := newTestHub(t)
	a, b := newTestClient(hub), newTestClient(hub)
	sameSession := NewClient(hub, nil, a.SessionID, a.Email, hub.logger)

	for _, c := range []*Client{a, b, sameSession} {
		hub.Register <- c
	}
	require.Eventually(t, func() bool { return hub.GetClientCount() == 3 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, hub.DisconnectSession(a.SessionID))
	assert.Equal(t, 0, hub.DisconnectSession(a.SessionID))
	assert.Equal(t, 1, hub.GetClientCount())
	assert.True(t, hub.IsSessionConnected(b.SessionID))
	assert.False(t, a.trySend(domain.Event{Type: domain.EventPong}))
	assert.False(t, sameSession.trySend(domain.Event{Type: domain.EventPong}))

	// A late unregister from the read pump is harmless
	hub.Unregister <- a
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventSummaryUpdated, Generation: 2}))
	assert.Equal(t, uint64(2), receive(t, b).Generation)
}
