package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	return c
}

func TestHub_InitialStateAndBroadcast(t *testing.T) {
	hub := NewHub(zap.NewNop(), func(*http.Request) bool { return true })
	srv := httptest.NewServer(hub.HandleWS(func() events.WagerSnapshot {
		return events.WagerSnapshot{Phase: "idle", Loading: true}
	}))
	defer srv.Close()

	c := dial(t, srv)

	var first ServerMsg
	require.NoError(t, c.ReadJSON(&first))
	assert.Equal(t, "state", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, "idle", first.State.Phase)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(events.WagerSnapshot{OpID: "op-1", Phase: "ready", GameStatus: "created", BetAmount: "1"})

	var next ServerMsg
	require.NoError(t, c.ReadJSON(&next))
	assert.Equal(t, "op-1", next.State.OpID)
	assert.Equal(t, "created", next.State.GameStatus)
	assert.Equal(t, "1", next.State.BetAmount)
}

func TestHub_PingPong(t *testing.T) {
	hub := NewHub(zap.NewNop(), func(*http.Request) bool { return true })
	srv := httptest.NewServer(hub.HandleWS(nil))
	defer srv.Close()

	c := dial(t, srv)
	require.NoError(t, c.WriteJSON(ClientMsg{Type: "ping"}))

	var msg ServerMsg
	require.NoError(t, c.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
	assert.Nil(t, msg.State)
}

func TestHub_RemovesClosedConnections(t *testing.T) {
	hub := NewHub(zap.NewNop(), func(*http.Request) bool { return true })
	srv := httptest.NewServer(hub.HandleWS(nil))
	defer srv.Close()

	c := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
