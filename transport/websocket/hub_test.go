package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/usecase"
)

const readTimeout = 5 * time.Second

type testServer struct {
	hub *Hub
	url string
}

func newTestServer(t *testing.T, coalesce bool) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, usecase.GameSettings{
		BoardSize:       3,
		WinLength:       3,
		CoalesceUpdates: coalesce,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(logger, manager, 0)
	go hub.Run(ctx)

	server := httptest.NewServer(New(logger, hub).Handler())
	t.Cleanup(server.Close)

	return &testServer{
		hub: hub,
		url: "ws" + strings.TrimPrefix(server.URL, "http") + "/ws",
	}
}

func (that *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(that.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func (that *testServer) waitFor(t *testing.T, expected usecase.Snapshot) {
	t.Helper()

	assert.Eventually(t, func() bool {
		snapshot, err := that.hub.Snapshot(context.Background())
		return err == nil && snapshot == expected
	}, readTimeout, 10*time.Millisecond)
}

func send(t *testing.T, conn *websocket.Conn, message string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(message)))
}

func receive(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var message map[string]any
	require.NoError(t, json.Unmarshal(data, &message))

	return message
}

// startGame connects "1" and "2" and consumes their start_game messages.
func startGame(t *testing.T, server *testServer) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	first, second := server.dial(t), server.dial(t)

	send(t, first, `{"type":"search_game","playerID":"1"}`)
	server.waitFor(t, usecase.Snapshot{Waiting: 1})
	send(t, second, `{"type":"search_game","playerID":"2"}`)

	for _, conn := range []*websocket.Conn{first, second} {
		message := receive(t, conn)
		assert.Equal(t, "start_game", message["type"])
		assert.Equal(t, []any{"1", "2"}, message["players"])
	}

	return first, second
}

func TestHub_FullGame(t *testing.T) {
	// Given: two matched players
	server := newTestServer(t, false)
	first, second := startGame(t, server)

	// When: "1" opens at (0,0)
	send(t, first, `{"type":"make_move","playerID":"1","x":0,"y":0}`)

	// Then: both get the board twice, first with the mover, then with the next player
	for _, conn := range []*websocket.Conn{first, second} {
		update := receive(t, conn)
		assert.Equal(t, "update_board", update["type"])
		assert.Equal(t, []any{"X", nil, nil}, update["board"].([]any)[0])
		assert.Equal(t, "1", update["currentPlayer"])

		update = receive(t, conn)
		assert.Equal(t, "2", update["currentPlayer"])
	}

	// When: "1" tries to play out of turn
	send(t, first, `{"type":"make_move","playerID":"1","x":1,"y":1}`)

	// Then: only "1" is told
	rejected := receive(t, first)
	assert.Equal(t, "error", rejected["type"])
	assert.Contains(t, rejected["message"], "not your turn")

	// When: the game is played out and "1" completes row 0
	moves := []struct {
		conn *websocket.Conn
		body string
	}{
		{second, `{"type":"make_move","playerID":"2","x":1,"y":0}`},
		{first, `{"type":"make_move","playerID":"1","x":0,"y":1}`},
		{second, `{"type":"make_move","playerID":"2","x":1,"y":1}`},
	}
	for _, m := range moves {
		send(t, m.conn, m.body)
		for _, conn := range []*websocket.Conn{first, second} {
			receive(t, conn)
			receive(t, conn)
		}
	}

	send(t, first, `{"type":"make_move","playerID":"1","x":0,"y":2}`)

	// Then: both get the final board and the winner
	for _, conn := range []*websocket.Conn{first, second} {
		update := receive(t, conn)
		assert.Equal(t, "update_board", update["type"])
		assert.Equal(t, []any{"X", "X", "X"}, update["board"].([]any)[0])

		end := receive(t, conn)
		assert.Equal(t, map[string]any{"type": "game_end", "winner": "1"}, end)
	}

	server.waitFor(t, usecase.Snapshot{})
}

func TestHub_CoalescedUpdates(t *testing.T) {
	server := newTestServer(t, true)
	first, second := startGame(t, server)

	send(t, first, `{"type":"make_move","playerID":"1","x":2,"y":2}`)

	for _, conn := range []*websocket.Conn{first, second} {
		update := receive(t, conn)
		assert.Equal(t, "2", update["currentPlayer"])
	}

	// the next frame is the answer to the following move, not a second update
	send(t, second, `{"type":"make_move","playerID":"2","x":2,"y":2}`)
	assert.Equal(t, "error", receive(t, second)["type"])
}

func TestHub_Disconnect(t *testing.T) {
	t.Run("Opponent is told once", func(t *testing.T) {
		// Given: a game in progress
		server := newTestServer(t, false)
		first, second := startGame(t, server)

		// When: "2" closes the connection
		require.NoError(t, second.Close())

		// Then: "1" gets game_end and the session is gone
		end := receive(t, first)
		assert.Equal(t, map[string]any{"type": "game_end", "winner": "opponent_disconnected"}, end)
		server.waitFor(t, usecase.Snapshot{})

		// And: "1" has no game anymore
		send(t, first, `{"type":"make_move","playerID":"1","x":0,"y":0}`)
		rejected := receive(t, first)
		assert.Equal(t, "error", rejected["type"])
		assert.Contains(t, rejected["message"], "no active game")
	})

	t.Run("Waiting player leaves the queue", func(t *testing.T) {
		server := newTestServer(t, false)
		conn := server.dial(t)

		send(t, conn, `{"type":"search_game","playerID":"1"}`)
		server.waitFor(t, usecase.Snapshot{Waiting: 1})

		require.NoError(t, conn.Close())

		server.waitFor(t, usecase.Snapshot{})
	})
}

func TestHub_IgnoresMalformedFrames(t *testing.T) {
	// Given: a connected client
	server := newTestServer(t, false)
	conn := server.dial(t)

	// When: it sends garbage and an unknown request
	send(t, conn, `not json`)
	send(t, conn, `{"type":"make_move","x":"a","y":0}`)
	send(t, conn, `{"type":"dance"}`)

	// Then: nothing is answered and the connection still works
	send(t, conn, `{"type":"make_move","playerID":"1","x":0,"y":0}`)
	message := receive(t, conn)
	assert.Equal(t, "error", message["type"])
	assert.Contains(t, message["message"], "no active game")
}

func TestHub_SnapshotAfterStop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger, usecase.NewGameManager(logger, usecase.GameSettings{BoardSize: 3, WinLength: 3}, nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	snapshot, err := hub.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, usecase.Snapshot{}, snapshot)

	cancel()
	<-stopped

	_, err = hub.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrHubStopped)
}

func TestHub_StopClosesClients(t *testing.T) {
	// Given: a running hub with a connected client
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(logger, usecase.NewGameManager(logger, usecase.GameSettings{BoardSize: 3, WinLength: 3}, nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(New(logger, hub).Handler())
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	send(t, conn, `{"type":"search_game","playerID":"1"}`)
	assert.Eventually(t, func() bool {
		snapshot, snapErr := hub.Snapshot(context.Background())
		return snapErr == nil && snapshot.Waiting == 1
	}, readTimeout, 10*time.Millisecond)

	// When: the hub stops
	cancel()
	<-stopped

	// Then: the client's connection is closed
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}
