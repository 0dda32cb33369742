package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	defaultSendBuffer = 16
)

var ErrSendBufferFull = errors.New("send buffer is full")

// Client is one WebSocket connection. Send and closeSend are only called from the hub
// goroutine; the pumps own the socket.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	closeOnce sync.Once
}

func newClient(id string, hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, hub.sendBuffer),
		logger: logger.With("component", "client", "conn", id),
	}
}

func (that *Client) ID() string {
	return that.id
}

// Send queues the encoded message for the write pump. A client that cannot keep up is
// disconnected.
func (that *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	select {
	case that.send <- data:
		return nil
	default:
		_ = that.conn.Close()
		return ErrSendBufferFull
	}
}

func (that *Client) closeSend() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// readPump decodes client frames and forwards them to the hub. Frames that are not a valid
// request are dropped.
func (that *Client) readPump() {
	log := that.logger.With("method", "readPump")

	defer func() {
		select {
		case that.hub.unregister <- that:
		case <-that.hub.done:
		}
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		var req usecase.Request
		if err = json.Unmarshal(data, &req); err != nil {
			log.Debug("ignoring message", "error", fmt.Errorf("%w: %w", apperror.ErrMalformedRequest, err))
			continue
		}

		select {
		case that.hub.messages <- inbound{client: that, request: &req}:
		case <-that.hub.done:
			return
		}
	}
}

// writePump writes queued messages, one frame each, and keeps the connection alive with pings.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				that.logger.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
