package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the chat panel and contacts grid endpoints.
func RegisterRoutes(router gin.IRouter, chat *ChatHandler, contacts *ContactHandler) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/messages", chat.GetMessages)
	router.POST("/messages", chat.PostMessage)
	router.DELETE("/messages/:message_id", chat.DeleteMessage)
	router.POST("/messages/:message_id/edit", chat.BeginEdit)

	router.PUT("/edit/draft", chat.UpdateDraft)
	router.POST("/edit/commit", chat.CommitEdit)
	router.POST("/edit/cancel", chat.CancelEdit)

	router.GET("/contacts", contacts.ListContacts)
	router.GET("/contacts/:contact_id", contacts.GetContact)
}
