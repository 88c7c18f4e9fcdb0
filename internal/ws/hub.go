package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"messenger/internal/models"
	"messenger/internal/observability"
)

const (
	wsRoutingKey = "ws_events.renderers"

	clientQueueSize = 32
	writeWait       = 10 * time.Second
)

var errRendererTooSlow = errors.New("renderer send queue full")

// client owns one renderer connection. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	info ConnInfo
	send chan []byte
	done chan struct{}

	stopOnce sync.Once
	dropped  atomic.Bool
}

// stop reports whether this call was the one that stopped the client.
func (c *client) stop() bool {
	first := false
	c.stopOnce.Do(func() {
		close(c.done)
		first = true
	})
	return first
}

// Hub fans chat events out to connected renderers without waiting on any of them.
type Hub struct {
	clients map[*websocket.Conn]*client
	mu      sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// AddClient registers a renderer connection. Events queue up until Start.
func (h *Hub) AddClient(conn *websocket.Conn, info ConnInfo) {
	h.register(conn, info)
}

func (h *Hub) register(conn *websocket.Conn, info ConnInfo) *client {
	c := &client{
		conn: conn,
		info: info,
		send: make(chan []byte, clientQueueSize),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	return c
}

// Start launches the writer for conn. first is written before any queued event.
func (h *Hub) Start(conn *websocket.Conn, first []byte) {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if ok {
		go h.writeLoop(c, first)
	}
}

// RemoveClient drops a renderer connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	c, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		c.stop()
	}
}

// Count returns the number of registered renderers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify queues a chat event for every renderer. A renderer whose queue is
// full is disconnected.
func (h *Hub) Notify(event models.ChatEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("encode chat event", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- payload:
		default:
			slog.Warn("websocket renderer too slow, dropping", "conn_id", c.info.ConnID, "type", event.Type)
			h.drop(c, errRendererTooSlow)
		}
	}
}

func (h *Hub) writeLoop(c *client, first []byte) {
	if first != nil {
		if err := h.write(c, first); err != nil {
			h.drop(c, err)
			return
		}
	}
	for {
		select {
		case payload := <-c.send:
			if err := h.write(c, payload); err != nil {
				slog.Warn("websocket write error", "conn_id", c.info.ConnID, "error", err)
				h.drop(c, err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) write(c *client, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// drop disconnects c after a write failure. Only the first stop of a client
// records the error, so a renderer closing on its own is not reported twice.
func (h *Hub) drop(c *client, err error) {
	if !c.stop() {
		return
	}
	c.dropped.Store(true)

	h.mu.Lock()
	if h.clients[c.conn] == c {
		delete(h.clients, c.conn)
	}
	h.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}

	observability.IncWSEvent("ws_error")
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   lifecyclePayload("ws_error", c.info, err.Error()),
	})
}
