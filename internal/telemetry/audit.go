package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"messenger/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

type AuditEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventID       string       `json:"event_id"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id,omitempty"`
	Payload       AuditPayload `json:"payload"`
}

type AuditPayload struct {
	Level     string          `json:"level"`
	Text      string          `json:"text"`
	MessageID int64           `json:"message_id,omitempty"`
	Message   *models.Message `json:"message,omitempty"`
}

// NewAuditEmitter builds an emitter publishing under routingKey, e.g. "chat".
// Chat events use routingKey + "." + event type.
func NewAuditEmitter(publisher Publisher, routingKey, service, environment string) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

// Emit publishes a free-form audit record.
func (e *AuditEmitter) Emit(ctx context.Context, level, text, requestID string) {
	if e == nil || e.publisher == nil {
		return
	}

	slog.Debug("audit emit", "level", level, "request_id", requestID, "text", text)
	envelope := e.envelope("audit_log", requestID, AuditPayload{Level: level, Text: text})
	if err := e.publisher.Publish(ctx, e.routingKey+".audit", envelope); err != nil {
		slog.Error("audit publish failed", "error", err)
	}
}

// EmitChatEvent publishes a chat transition.
func (e *AuditEmitter) EmitChatEvent(ctx context.Context, event models.ChatEvent) error {
	if e == nil || e.publisher == nil {
		return nil
	}

	envelope := e.envelope(event.Type, "", AuditPayload{
		Level:     "INFO",
		Text:      event.Notice,
		MessageID: event.MessageID,
		Message:   event.Message,
	})
	return e.publisher.Publish(ctx, e.routingKey+"."+event.Type, envelope)
}

func (e *AuditEmitter) envelope(eventType, requestID string, payload AuditPayload) AuditEnvelope {
	return AuditEnvelope{
		SchemaVersion: 1,
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       payload,
	}
}
