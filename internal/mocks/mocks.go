package mocks

import (
	"github.com/stretchr/testify/mock"

	"messenger/internal/models"
	"messenger/internal/notify"
	"messenger/internal/repositories"
)

type MessageStoreMock struct {
	mock.Mock
}

func (m *MessageStoreMock) Send(rawText string) (models.Message, error) {
	args := m.Called(rawText)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageStoreMock) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MessageStoreMock) BeginEdit(id int64, currentText string) error {
	args := m.Called(id, currentText)
	return args.Error(0)
}

func (m *MessageStoreMock) UpdateDraft(text string) bool {
	args := m.Called(text)
	return args.Bool(0)
}

func (m *MessageStoreMock) CommitEdit() (models.Message, bool) {
	args := m.Called()
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Bool(1)
}

func (m *MessageStoreMock) CancelEdit() {
	m.Called()
}

func (m *MessageStoreMock) Get(id int64) (models.Message, error) {
	args := m.Called(id)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageStoreMock) Messages() []models.Message {
	args := m.Called()
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs
}

func (m *MessageStoreMock) Session() models.EditSession {
	args := m.Called()
	var session models.EditSession
	if val := args.Get(0); val != nil {
		session = val.(models.EditSession)
	}
	return session
}

func (m *MessageStoreMock) Snapshot() models.Snapshot {
	args := m.Called()
	var snapshot models.Snapshot
	if val := args.Get(0); val != nil {
		snapshot = val.(models.Snapshot)
	}
	return snapshot
}

type ContactDirectoryMock struct {
	mock.Mock
}

func (m *ContactDirectoryMock) List() []models.Contact {
	args := m.Called()
	var contacts []models.Contact
	if val := args.Get(0); val != nil {
		contacts = val.([]models.Contact)
	}
	return contacts
}

func (m *ContactDirectoryMock) Get(id int64) (models.Contact, error) {
	args := m.Called(id)
	var contact models.Contact
	if val := args.Get(0); val != nil {
		contact = val.(models.Contact)
	}
	return contact, args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(event models.ChatEvent) {
	m.Called(event)
}

var _ repositories.MessageStore = (*MessageStoreMock)(nil)
var _ repositories.ContactDirectory = (*ContactDirectoryMock)(nil)
var _ notify.Notifier = (*NotifierMock)(nil)
