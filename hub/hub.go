// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/watchalong/models"
)

// SnapshotSource produces the full state pushed to clients.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
}

// Hub maintains the set of live connections per topic and pushes snapshots to them.
type Hub struct {
	source   SnapshotSource
	upgrader websocket.Upgrader

	// mu guards topics and orders snapshot delivery: a snapshot is computed
	// and queued to every client before the next one is computed.
	mu     sync.Mutex
	topics map[string]map[*Client]struct{}
}

func New(source SnapshotSource) *Hub {
	return &Hub{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same permissive policy as the HTTP CORS headers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		topics: make(map[string]map[*Client]struct{}),
	}
}

// ServeWS upgrades the request, subscribes the connection to the shared topic
// and sends it the current snapshot.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		ID:    uuid.NewString(),
		topic: models.Topic,
	}

	if err := h.subscribe(r.Context(), client); err != nil {
		slog.Error("failed to subscribe client", "client", client.ID, "error", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, ""))
		conn.Close()
		return
	}

	slog.Info("client connected", "client", client.ID, "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}

func (h *Hub) subscribe(ctx context.Context, c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg, err := h.snapshotMessage(ctx)
	if err != nil {
		return err
	}

	clients := h.topics[c.topic]
	if clients == nil {
		clients = make(map[*Client]struct{})
		h.topics[c.topic] = clients
	}
	clients[c] = struct{}{}

	// Fresh buffer, cannot block
	c.send <- msg
	return nil
}

// unsubscribe is safe to call more than once; only the first call closes send.
func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.removeLocked(c) {
		slog.Info("client disconnected", "client", c.ID)
	}
}

func (h *Hub) removeLocked(c *Client) bool {
	clients := h.topics[c.topic]
	if _, ok := clients[c]; !ok {
		return false
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
	return true
}

func (h *Hub) snapshotMessage(ctx context.Context) ([]byte, error) {
	snap, err := h.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}
	msg, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return msg, nil
}

// Broadcast pushes the current snapshot to every client of the shared topic.
func (h *Hub) Broadcast(ctx context.Context) error {
	return h.Publish(ctx, models.Topic)
}

// Publish pushes the current snapshot to every client subscribed to topic.
// It never waits on a socket: a client whose buffer is full is dropped.
func (h *Hub) Publish(ctx context.Context, topic string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.topics[topic]
	if len(clients) == 0 {
		return nil
	}

	msg, err := h.snapshotMessage(ctx)
	if err != nil {
		return err
	}

	for c := range clients {
		select {
		case c.send <- msg:
		default:
			slog.Warn("dropping slow client", "client", c.ID)
			h.removeLocked(c)
		}
	}

	slog.Debug("snapshot published", "topic", topic, "clients", len(clients), "bytes", len(msg))
	return nil
}

// Clients returns the number of live connections across all topics.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, clients := range h.topics {
		n += len(clients)
	}
	return n
}

// Close disconnects every client. Their write pumps send a close frame.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.topics {
		for c := range clients {
			h.removeLocked(c)
		}
	}
}
