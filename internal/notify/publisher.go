package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"messenger/internal/models"
	"messenger/internal/observability"
)

// EventEmitter forwards a chat event to an external bus.
type EventEmitter interface {
	EmitChatEvent(ctx context.Context, event models.ChatEvent) error
}

const (
	defaultQueueSize      = 64
	defaultPublishTimeout = 2 * time.Second
)

// PublisherNotifier hands events to a background worker so the store never
// waits on the bus. Events arriving while the queue is full are dropped.
type PublisherNotifier struct {
	emitter EventEmitter
	timeout time.Duration
	log     *slog.Logger

	events    chan models.ChatEvent
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewPublisherNotifier starts the worker. Call Close to drain and stop it.
func NewPublisherNotifier(emitter EventEmitter, log *slog.Logger) *PublisherNotifier {
	if log == nil {
		log = slog.Default()
	}
	p := &PublisherNotifier{
		emitter: emitter,
		timeout: defaultPublishTimeout,
		log:     log,
		events:  make(chan models.ChatEvent, defaultQueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *PublisherNotifier) Notify(event models.ChatEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.events <- event:
	default:
		p.log.Warn("event queue full, dropping event", "type", event.Type, "message_id", event.MessageID)
	}
}

// Close stops accepting events and waits until queued ones are published.
func (p *PublisherNotifier) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.events)
		p.mu.Unlock()
	})
	<-p.done
}

func (p *PublisherNotifier) run() {
	defer close(p.done)
	for event := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.emitter.EmitChatEvent(ctx, event); err != nil {
			observability.IncAMQPPublishError()
			p.log.Error("publish chat event failed", "type", event.Type, "message_id", event.MessageID, "error", err)
		}
		cancel()
	}
}
