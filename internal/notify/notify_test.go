package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/models"
)

func TestNoticeFor(t *testing.T) {
	assert.Equal(t, "Сообщение отправлено", NoticeFor(models.EventMessageSent))
	assert.Equal(t, "Сообщение удалено", NoticeFor(models.EventMessageDeleted))
	assert.Equal(t, "Сообщение изменено", NoticeFor(models.EventMessageEdited))
	assert.Empty(t, NoticeFor("unknown"))
}

func TestFanoutSkipsNil(t *testing.T) {
	var got []string
	record := NotifierFunc(func(e models.ChatEvent) { got = append(got, e.Type) })

	Fanout{record, nil, record}.Notify(models.ChatEvent{Type: models.EventMessageSent})

	assert.Equal(t, []string{models.EventMessageSent, models.EventMessageSent}, got)
}

func TestToasterLogsNotice(t *testing.T) {
	var buf bytes.Buffer
	toaster := NewToaster(slog.New(slog.NewTextHandler(&buf, nil)))

	toaster.Notify(models.ChatEvent{Type: models.EventMessageDeleted, MessageID: 7})

	out := buf.String()
	assert.Contains(t, out, "toast")
	assert.Contains(t, out, "message_id=7")
	assert.Contains(t, out, "Сообщение удалено")
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []models.ChatEvent
	err    error
	block  chan struct{}
}

func (r *recordingEmitter) EmitChatEvent(ctx context.Context, event models.ChatEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestPublisherNotifierDeliversInOrder(t *testing.T) {
	emitter := &recordingEmitter{}
	p := NewPublisherNotifier(emitter, nil)

	p.Notify(models.ChatEvent{Type: models.EventMessageSent, MessageID: 1})
	p.Notify(models.ChatEvent{Type: models.EventMessageEdited, MessageID: 1})
	p.Notify(models.ChatEvent{Type: models.EventMessageDeleted, MessageID: 1})
	p.Close()

	require.Equal(t, 3, emitter.count())
	assert.Equal(t, models.EventMessageSent, emitter.events[0].Type)
	assert.Equal(t, models.EventMessageEdited, emitter.events[1].Type)
	assert.Equal(t, models.EventMessageDeleted, emitter.events[2].Type)
}

func publishErrors(t *testing.T) float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "chat_amqp_publish_errors_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestPublisherNotifierSurvivesEmitErrors(t *testing.T) {
	var buf bytes.Buffer
	emitter := &recordingEmitter{err: errors.New("broker down")}
	p := NewPublisherNotifier(emitter, slog.New(slog.NewTextHandler(&buf, nil)))
	before := publishErrors(t)

	p.Notify(models.ChatEvent{Type: models.EventMessageSent, MessageID: 5})
	p.Close()

	assert.Equal(t, 1, emitter.count())
	assert.Contains(t, buf.String(), "broker down")
	assert.Equal(t, before+1, publishErrors(t))
}

func TestPublisherNotifierDropsWhenFull(t *testing.T) {
	emitter := &recordingEmitter{block: make(chan struct{})}
	p := NewPublisherNotifier(emitter, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultQueueSize*3; i++ {
			p.Notify(models.ChatEvent{Type: models.EventMessageSent, MessageID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(emitter.block)
	p.Close()
	assert.Less(t, emitter.count(), defaultQueueSize*3)
}

func TestPublisherNotifierIgnoresAfterClose(t *testing.T) {
	emitter := &recordingEmitter{}
	p := NewPublisherNotifier(emitter, nil)
	p.Close()
	p.Close()

	p.Notify(models.ChatEvent{Type: models.EventMessageSent})
	assert.Equal(t, 0, emitter.count())
}
