package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"messenger/internal/telemetry"
)

// Publisher publishes chat and audit events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// NewPublisher connects to the chat exchange. Any failure yields a publisher
// that only logs, so the chat keeps working without a broker.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		return newNoop("empty amqp url")
	}

	p, err := dial(amqpURL, exchange)
	if err != nil {
		return newNoop(err.Error())
	}
	slog.Info("rabbitmq connected", "exchange", exchange)
	return p
}

func dial(amqpURL, exchange string) (*amqpPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	// durable topic exchange; consumers bind on chat.* and ws_events.*
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Publish sends event as a persistent JSON message. Failures are returned to
// the caller, which owns the error metric.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", routingKey, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if chat, ok := chatFields(event); ok {
		msg.MessageId = chat.EventID
		msg.Type = chat.EventType
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct {
	reason string
}

func newNoop(reason string) noopPublisher {
	slog.Warn("rabbitmq disabled, events are logged only", "reason", reason)
	return noopPublisher{reason: reason}
}

func (noopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	if chat, ok := chatFields(event); ok {
		slog.Debug("chat event not published", "routing_key", routingKey,
			"event_type", chat.EventType, "message_id", chat.Payload.MessageID, "event_id", chat.EventID)
		return nil
	}
	slog.Debug("event not published", "routing_key", routingKey)
	return nil
}

func (noopPublisher) Close() error {
	return nil
}

func chatFields(event any) (telemetry.AuditEnvelope, bool) {
	switch e := event.(type) {
	case telemetry.AuditEnvelope:
		return e, true
	case *telemetry.AuditEnvelope:
		if e != nil {
			return *e, true
		}
	}
	return telemetry.AuditEnvelope{}, false
}

// PublisherMode reports "amqp", "noop" or "unknown" for startup logging.
func PublisherMode(p Publisher) string {
	switch p.(type) {
	case *amqpPublisher:
		return "amqp"
	case noopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}

// PublisherNoopReason reports why events are only logged.
func PublisherNoopReason(p Publisher) string {
	if noop, ok := p.(noopPublisher); ok {
		return noop.reason
	}
	return ""
}
