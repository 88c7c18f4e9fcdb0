// Package notify delivers chat events to the collaborators that surface them:
// toasts, websocket renderers and the event bus.
package notify

import (
	"log/slog"

	"messenger/internal/models"
)

// Notifier is told about successful transitions. Implementations must not block.
type Notifier interface {
	Notify(event models.ChatEvent)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event models.ChatEvent)

func (f NotifierFunc) Notify(event models.ChatEvent) { f(event) }

var notices = map[string]string{
	models.EventMessageSent:    "Сообщение отправлено",
	models.EventMessageDeleted: "Сообщение удалено",
	models.EventMessageEdited:  "Сообщение изменено",
}

// NoticeFor returns the toast text for an event type, or "" for unknown types.
func NoticeFor(eventType string) string {
	return notices[eventType]
}

// Fanout forwards every event to each non-nil notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(event models.ChatEvent) {
	for _, n := range f {
		if n != nil {
			n.Notify(event)
		}
	}
}

// Toaster writes the user-facing notice to the log.
type Toaster struct {
	log *slog.Logger
}

// NewToaster builds a Toaster. A nil logger uses slog.Default.
func NewToaster(log *slog.Logger) *Toaster {
	if log == nil {
		log = slog.Default()
	}
	return &Toaster{log: log}
}

func (t *Toaster) Notify(event models.ChatEvent) {
	notice := event.Notice
	if notice == "" {
		notice = NoticeFor(event.Type)
	}
	t.log.Info("toast", "type", event.Type, "message_id", event.MessageID, "notice", notice)
}
