package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger/internal/repositories"
)

// ContactHandler serves the contacts grid.
type ContactHandler struct {
	directory repositories.ContactDirectory
}

// NewContactHandler builds a ContactHandler.
func NewContactHandler(directory repositories.ContactDirectory) *ContactHandler {
	return &ContactHandler{directory: directory}
}

// ListContacts handles GET /contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contacts": h.directory.List()})
}

// GetContact handles GET /contacts/:contact_id.
func (h *ContactHandler) GetContact(c *gin.Context) {
	contactID, ok := parseID(c, "contact_id")
	if !ok {
		return
	}

	contact, err := h.directory.Get(contactID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrContactNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "contact not found"})
		return
	}

	c.JSON(http.StatusOK, contact)
}
