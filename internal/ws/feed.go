package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messenger/internal/middleware"
	"messenger/internal/models"
	"messenger/internal/observability"
	"messenger/internal/telemetry"
)

// SnapshotSource provides the state a renderer needs on connect.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// FeedHandler upgrades renderer connections and registers them with the hub.
type FeedHandler struct {
	hub   *Hub
	store SnapshotSource
}

// NewFeedHandler constructs a FeedHandler.
func NewFeedHandler(hub *Hub, store SnapshotSource) *FeedHandler {
	return &FeedHandler{hub: hub, store: store}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, sends the current snapshot and keeps the
// connection registered until the renderer goes away.
func (h *FeedHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("messenger/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = observability.RequestIDFromRequest(c.Request)
	}
	info := ConnInfo{
		ConnID:      newConnID(),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     telemetry.TraceIDFromContext(ctx),
		ConnectedAt: time.Now(),
	}

	// Register before reading the snapshot so no transition falls between them.
	renderer := h.hub.register(conn, info)
	snapshot := h.store.Snapshot()
	payload, _ := json.Marshal(models.ChatEvent{Type: models.EventSnapshot, Snapshot: &snapshot})
	h.hub.Start(conn, payload)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.publish("ws_connect", info, "")

	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			h.publish("ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if renderer.dropped.Load() {
					return
				}
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
					h.publish("ws_error", info, closeReason)
				}
				return
			}
		}
	}()
}

func (h *FeedHandler) publish(event string, info ConnInfo, reason string) {
	_ = observability.PublishEvent(context.Background(), wsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload:   lifecyclePayload(event, info, reason),
	})
}
