package models

import "time"

// Message represents a chat message shown in the chat panel.
type Message struct {
	ID        int64      `json:"id" yaml:"id"`
	Text      string     `json:"text" yaml:"text"`
	Sender    string     `json:"sender" yaml:"sender"`
	Avatar    string     `json:"avatar" yaml:"avatar"`
	Timestamp string     `json:"timestamp" yaml:"timestamp"`
	IsOwn     bool       `json:"is_own" yaml:"is_own"`
	EditedAt  *time.Time `json:"edited_at,omitempty" yaml:"-"`
}

// EditSession tracks the single message currently being edited.
type EditSession struct {
	Active    bool   `json:"active"`
	EditingID int64  `json:"editing_id,omitempty"`
	EditText  string `json:"edit_text,omitempty"`
}

// Idle reports whether no message is being edited.
func (s EditSession) Idle() bool {
	return !s.Active
}

// Snapshot is the read model a renderer draws from after every transition.
type Snapshot struct {
	Messages []Message   `json:"messages"`
	Session  EditSession `json:"session"`
}

// Chat event types.
const (
	EventMessageSent    = "message_sent"
	EventMessageDeleted = "message_deleted"
	EventMessageEdited  = "message_edited"
	EventSnapshot       = "snapshot"
)

// ChatEvent is handed to notification collaborators after a successful transition.
type ChatEvent struct {
	Type      string    `json:"type"`
	Message   *Message  `json:"message,omitempty"`
	MessageID int64     `json:"message_id,omitempty"`
	Notice    string    `json:"notice,omitempty"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
}
