package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger/internal/repositories"
)

// ChatHandler binds chat panel input to message store transitions.
type ChatHandler struct {
	store repositories.MessageStore
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(store repositories.MessageStore) *ChatHandler {
	return &ChatHandler{store: store}
}

// GetMessages returns the message list and the edit session.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// PostMessage sends a message. Blank input is ignored.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.store.Send(req.Text)
	if err != nil {
		if errors.Is(err, repositories.ErrEmptyInput) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage removes a message. Unknown ids succeed.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := parseID(c, "message_id")
	if !ok {
		return
	}

	if _, err := h.store.Delete(messageID); err != nil {
		if errors.Is(err, repositories.ErrNotOwnMessage) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only own messages can be deleted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete message"})
		return
	}

	c.Status(http.StatusNoContent)
}

// BeginEdit opens the edit session. Without a body the draft starts from the
// message's current text.
func (h *ChatHandler) BeginEdit(c *gin.Context) {
	messageID, ok := parseID(c, "message_id")
	if !ok {
		return
	}

	var req struct {
		Text *string `json:"text"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var draft string
	if req.Text != nil {
		draft = *req.Text
	} else {
		msg, err := h.store.Get(messageID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, repositories.ErrMessageNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": "message not found"})
			return
		}
		draft = msg.Text
	}

	if err := h.store.BeginEdit(messageID, draft); err != nil {
		if errors.Is(err, repositories.ErrNotOwnMessage) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only own messages can be edited"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start edit"})
		return
	}

	c.JSON(http.StatusOK, h.store.Session())
}

// UpdateDraft replaces the draft of the active edit session.
func (h *ChatHandler) UpdateDraft(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.store.UpdateDraft(req.Text) {
		c.JSON(http.StatusConflict, gin.H{"error": "no active edit session"})
		return
	}

	c.JSON(http.StatusOK, h.store.Session())
}

// CommitEdit saves the draft. Nothing to save yields 204.
func (h *ChatHandler) CommitEdit(c *gin.Context) {
	msg, ok := h.store.CommitEdit()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// CancelEdit abandons the edit session.
func (h *ChatHandler) CancelEdit(c *gin.Context) {
	h.store.CancelEdit()
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
