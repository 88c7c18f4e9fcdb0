package repositories

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"messenger/internal/models"
	"messenger/internal/notify"
	"messenger/internal/observability"
)

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotOwnMessage   = errors.New("message not owned by local user")
)

// MessageStore defines the chat panel's state transitions.
type MessageStore interface {
	Send(rawText string) (models.Message, error)
	Delete(id int64) (bool, error)
	BeginEdit(id int64, currentText string) error
	UpdateDraft(text string) bool
	CommitEdit() (models.Message, bool)
	CancelEdit()
	Get(id int64) (models.Message, error)
	Messages() []models.Message
	Session() models.EditSession
	Snapshot() models.Snapshot
}

// IDGenerator hands out message ids.
type IDGenerator interface {
	NextID() int64
}

// SequenceIDs is a strictly increasing id generator.
type SequenceIDs struct {
	last atomic.Int64
}

// NewSequenceIDs returns a generator whose first id is after+1.
func NewSequenceIDs(after int64) *SequenceIDs {
	s := &SequenceIDs{}
	s.last.Store(after)
	return s
}

// NextID returns the next id in the sequence.
func (s *SequenceIDs) NextID() int64 {
	return s.last.Add(1)
}

// Author identifies the local user on sent messages.
type Author struct {
	Name   string
	Avatar string
}

// DefaultAuthor is the local user marker shown in the chat panel.
var DefaultAuthor = Author{Name: "Вы", Avatar: "ВЫ"}

// DefaultTimestampLayout renders the 2-digit hour:minute shown under a message.
const DefaultTimestampLayout = "15:04"

// Option configures a MemoryMessageStore.
type Option func(*MemoryMessageStore)

// WithIDGenerator replaces the default sequence generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *MemoryMessageStore) { s.ids = ids }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryMessageStore) { s.now = now }
}

// WithTimestampLayout sets the time layout used for message timestamps.
func WithTimestampLayout(layout string) Option {
	return func(s *MemoryMessageStore) { s.layout = layout }
}

// WithAuthor sets the sender and avatar stamped on sent messages.
func WithAuthor(author Author) Option {
	return func(s *MemoryMessageStore) { s.author = author }
}

// WithOwnershipCheck toggles rejection of delete/edit on messages that are not own.
func WithOwnershipCheck(enabled bool) Option {
	return func(s *MemoryMessageStore) { s.enforceOwnership = enabled }
}

// WithNotifier sets the collaborator told about successful send, delete and commit.
func WithNotifier(n notify.Notifier) Option {
	return func(s *MemoryMessageStore) { s.notifier = n }
}

// MemoryMessageStore keeps the ordered message list and the edit session in memory.
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages []models.Message
	session  models.EditSession

	ids              IDGenerator
	now              func() time.Time
	layout           string
	author           Author
	enforceOwnership bool
	notifier         notify.Notifier
}

// NewMessageStore builds a store holding a copy of seed in its given order.
func NewMessageStore(seed []models.Message, opts ...Option) *MemoryMessageStore {
	var maxID int64
	messages := make([]models.Message, 0, len(seed))
	for _, m := range seed {
		if m.ID > maxID {
			maxID = m.ID
		}
		messages = append(messages, cloneMessage(m))
	}

	s := &MemoryMessageStore{
		messages:         messages,
		now:              time.Now,
		layout:           DefaultTimestampLayout,
		author:           DefaultAuthor,
		enforceOwnership: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewSequenceIDs(maxID)
	}
	observability.SetStoredMessages(len(s.messages))
	return s
}

// Send appends a new own message built from the trimmed text.
func (s *MemoryMessageStore) Send(rawText string) (models.Message, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		observability.IncStoreOp("send", "empty_input")
		return models.Message{}, ErrEmptyInput
	}

	s.mu.Lock()
	id := s.ids.NextID()
	for s.indexOf(id) >= 0 {
		id = s.ids.NextID()
	}
	msg := models.Message{
		ID:        id,
		Text:      text,
		Sender:    s.author.Name,
		Avatar:    s.author.Avatar,
		Timestamp: s.now().Format(s.layout),
		IsOwn:     true,
	}
	s.messages = append(s.messages, msg)
	count := len(s.messages)
	s.mu.Unlock()

	observability.IncStoreOp("send", "ok")
	observability.SetStoredMessages(count)
	s.notify(models.ChatEvent{Type: models.EventMessageSent, Message: &msg, MessageID: msg.ID})
	return msg, nil
}

// Delete removes the message with id. A missing id is not an error.
func (s *MemoryMessageStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		observability.IncStoreOp("delete", "not_found")
		return false, nil
	}
	if s.enforceOwnership && !s.messages[idx].IsOwn {
		s.mu.Unlock()
		observability.IncStoreOp("delete", "not_own")
		return false, ErrNotOwnMessage
	}
	s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	count := len(s.messages)
	s.mu.Unlock()

	observability.IncStoreOp("delete", "ok")
	observability.SetStoredMessages(count)
	s.notify(models.ChatEvent{Type: models.EventMessageDeleted, MessageID: id})
	return true, nil
}

// BeginEdit opens an edit session for id, replacing any session in progress.
func (s *MemoryMessageStore) BeginEdit(id int64, currentText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 && s.enforceOwnership && !s.messages[idx].IsOwn {
		observability.IncStoreOp("begin_edit", "not_own")
		return ErrNotOwnMessage
	}
	s.session = models.EditSession{Active: true, EditingID: id, EditText: currentText}
	observability.IncStoreOp("begin_edit", "ok")
	return nil
}

// UpdateDraft replaces the draft text. It reports false when no session is active.
func (s *MemoryMessageStore) UpdateDraft(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Active {
		observability.IncStoreOp("update_draft", "idle")
		return false
	}
	s.session.EditText = text
	observability.IncStoreOp("update_draft", "ok")
	return true
}

// CommitEdit writes the draft into the edited message and ends the session.
// It reports false when nothing was written: no session, the message is gone,
// or the draft is blank.
func (s *MemoryMessageStore) CommitEdit() (models.Message, bool) {
	s.mu.Lock()
	session := s.session
	s.session = models.EditSession{}
	if !session.Active {
		s.mu.Unlock()
		observability.IncStoreOp("commit_edit", "idle")
		return models.Message{}, false
	}

	idx := s.indexOf(session.EditingID)
	if idx < 0 {
		s.mu.Unlock()
		observability.IncStoreOp("commit_edit", "not_found")
		return models.Message{}, false
	}

	if strings.TrimSpace(session.EditText) == "" {
		s.mu.Unlock()
		observability.IncStoreOp("commit_edit", "empty_input")
		return models.Message{}, false
	}

	editedAt := s.now()
	s.messages[idx].Text = session.EditText
	s.messages[idx].EditedAt = &editedAt
	msg := cloneMessage(s.messages[idx])
	s.mu.Unlock()

	observability.IncStoreOp("commit_edit", "ok")
	s.notify(models.ChatEvent{Type: models.EventMessageEdited, Message: &msg, MessageID: msg.ID})
	return msg, true
}

// CancelEdit ends the session without touching any message.
func (s *MemoryMessageStore) CancelEdit() {
	s.mu.Lock()
	s.session = models.EditSession{}
	s.mu.Unlock()
	observability.IncStoreOp("cancel_edit", "ok")
}

// Get returns the message with id.
func (s *MemoryMessageStore) Get(id int64) (models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Message{}, ErrMessageNotFound
	}
	return cloneMessage(s.messages[idx]), nil
}

// Messages returns a copy of the message list in append order.
func (s *MemoryMessageStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyMessages()
}

// Session returns the current edit session.
func (s *MemoryMessageStore) Session() models.EditSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Snapshot returns messages and session read under one lock.
func (s *MemoryMessageStore) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{Messages: s.copyMessages(), Session: s.session}
}

func (s *MemoryMessageStore) copyMessages() []models.Message {
	out := make([]models.Message, len(s.messages))
	for i := range s.messages {
		out[i] = cloneMessage(s.messages[i])
	}
	return out
}

// cloneMessage detaches EditedAt so callers cannot reach the stored time.
func cloneMessage(m models.Message) models.Message {
	if m.EditedAt != nil {
		t := *m.EditedAt
		m.EditedAt = &t
	}
	return m
}

func (s *MemoryMessageStore) indexOf(id int64) int {
	for i := range s.messages {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryMessageStore) notify(event models.ChatEvent) {
	if s.notifier == nil {
		return
	}
	if event.Notice == "" {
		event.Notice = notify.NoticeFor(event.Type)
	}
	s.notifier.Notify(event)
}

var _ MessageStore = (*MemoryMessageStore)(nil)
