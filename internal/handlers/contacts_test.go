package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger/internal/mocks"
	"messenger/internal/models"
	"messenger/internal/repositories"
	"messenger/internal/telemetry"
)

func setupContactRouter(directory repositories.ContactDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewChatHandler(new(mocks.MessageStoreMock)), NewContactHandler(directory))
	return r
}

func TestListContacts(t *testing.T) {
	directory := new(mocks.ContactDirectoryMock)
	router := setupContactRouter(directory)

	directory.On("List").Return([]models.Contact{{ID: 1, Name: "Анна Смирнова"}, {ID: 2, Name: "Иван Петров"}}).Once()

	rec := serve(router, http.MethodGet, "/contacts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Contacts []models.Contact `json:"contacts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Contacts, 2)
	assert.Equal(t, "Иван Петров", resp.Contacts[1].Name)
	directory.AssertExpectations(t)
}

func TestGetContact(t *testing.T) {
	directory := new(mocks.ContactDirectoryMock)
	router := setupContactRouter(directory)

	directory.On("Get", int64(3)).Return(models.Contact{ID: 3, Email: "maria@example.com"}, nil).Once()
	directory.On("Get", int64(8)).Return(nil, repositories.ErrContactNotFound).Once()

	rec := serve(router, http.MethodGet, "/contacts/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/contacts/8", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/contacts/x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	directory.AssertExpectations(t)
}

func TestHealthz(t *testing.T) {
	rec := serve(setupContactRouter(new(mocks.ContactDirectoryMock)), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDebugRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	disabled := gin.New()
	RegisterDebugRoutes(disabled, nil, false)
	require.Equal(t, http.StatusNotFound, serve(disabled, http.MethodGet, "/debug/notify-test", "").Code)

	unconfigured := gin.New()
	RegisterDebugRoutes(unconfigured, nil, true)
	require.Equal(t, http.StatusServiceUnavailable, serve(unconfigured, http.MethodGet, "/debug/notify-test", "").Code)

	pub := new(mocks.PublisherMock)
	pub.On("Publish", mock.Anything, "chat.audit", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.EventType == "audit_log" && env.RequestID != ""
	})).Return(nil).Once()

	enabled := gin.New()
	RegisterDebugRoutes(enabled, telemetry.NewAuditEmitter(pub, "chat", "messenger", "test"), true)
	require.Equal(t, http.StatusOK, serve(enabled, http.MethodGet, "/debug/notify-test", "").Code)
	pub.AssertExpectations(t)
}
