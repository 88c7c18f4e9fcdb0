package ws

import (
	"time"

	"github.com/google/uuid"

	"messenger/internal/observability"
)

func newConnID() string {
	return uuid.NewString()
}

func lifecyclePayload(event string, info ConnInfo, reason string) observability.WSEventPayload {
	var duration int64
	if !info.ConnectedAt.IsZero() {
		duration = time.Since(info.ConnectedAt).Milliseconds()
	}
	return observability.WSEventPayload{
		Event:      event,
		ConnID:     info.ConnID,
		DurationMS: duration,
		Reason:     reason,
		IP:         info.IP,
		RequestID:  info.RequestID,
		TraceID:    info.TraceID,
	}
}
