package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/usecase"
)

var ErrHubStopped = errors.New("hub is stopped")

type dispatcher interface {
	Dispatch(conn usecase.Connection, req *usecase.Request) error
	Disconnect(connID string)
	Snapshot() usecase.Snapshot
}

type inbound struct {
	client  *Client
	request *usecase.Request
}

// Hub runs the single event loop of the server. Every inbound message, disconnect and
// snapshot query is handled on the Run goroutine, one at a time, so the game manager needs no
// locking.
type Hub struct {
	logger     *slog.Logger
	manager    dispatcher
	upgrader   websocket.Upgrader
	sendBuffer int

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	messages   chan inbound
	snapshots  chan chan usecase.Snapshot
	done       chan struct{}
}

func NewHub(logger *slog.Logger, manager dispatcher, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	return &Hub{
		logger:  logger.With("component", "hub"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		sendBuffer: sendBuffer,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		messages:   make(chan inbound),
		snapshots:  make(chan chan usecase.Snapshot),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is canceled, then closes every client.
func (that *Hub) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case client := <-that.register:
			that.clients[client.id] = client
			log.Debug("client registered", "conn", client.id, "clients", len(that.clients))

		case client := <-that.unregister:
			if _, ok := that.clients[client.id]; !ok {
				continue
			}

			that.manager.Disconnect(client.id)
			delete(that.clients, client.id)
			client.closeSend()
			log.Debug("client unregistered", "conn", client.id, "clients", len(that.clients))

		case msg := <-that.messages:
			if _, ok := that.clients[msg.client.id]; !ok {
				continue
			}

			if err := that.manager.Dispatch(msg.client, msg.request); err != nil {
				log.Debug("request not applied", "conn", msg.client.id, "type", msg.request.Type, "error", err)
			}

		case reply := <-that.snapshots:
			reply <- that.manager.Snapshot()

		case <-ctx.Done():
			that.shutdown()
			return
		}
	}
}

func (that *Hub) shutdown() {
	close(that.done)

	for id, client := range that.clients {
		client.closeSend()
		delete(that.clients, id)
	}

	that.logger.Info("hub stopped")
}

// Snapshot asks the event loop for the current queue and session counts.
func (that *Hub) Snapshot(ctx context.Context) (usecase.Snapshot, error) {
	reply := make(chan usecase.Snapshot, 1)

	select {
	case that.snapshots <- reply:
	case <-that.done:
		return usecase.Snapshot{}, ErrHubStopped
	case <-ctx.Done():
		return usecase.Snapshot{}, fmt.Errorf("snapshot: %w", ctx.Err())
	}

	select {
	case snapshot := <-reply:
		return snapshot, nil
	case <-ctx.Done():
		return usecase.Snapshot{}, fmt.Errorf("snapshot: %w", ctx.Err())
	}
}

// ServeWS upgrades the request and attaches a new client with a fresh connection ID.
func (that *Hub) ServeWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(uuid.NewString(), that, conn, that.logger)

	select {
	case that.register <- client:
	case <-that.done:
		_ = conn.Close()
		return
	}

	log.Info("WebSocket connection established", "conn", client.id, "remote", req.RemoteAddr)

	go client.writePump()
	go client.readPump()
}
