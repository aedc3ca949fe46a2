package handlers

import (
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chats      service.ChatService
	dispatcher *websocket.Dispatcher
}

func NewChatHandler(chats service.ChatService, dispatcher *websocket.Dispatcher) *ChatHandler {
	return &ChatHandler{chats: chats, dispatcher: dispatcher}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/chats", h.List)
	r.POST("/chats", h.Create)
	r.GET("/chats/:chatID", h.Get)
	r.DELETE("/chats/:chatID", h.Delete)
	r.PUT("/chats/:chatID/transaction", h.UpdateJobChat)
	r.GET("/chats/:chatID/messages", h.ListMessages)
	r.POST("/chats/messages", h.SendMessage)
	r.PUT("/chats/:chatID/messages/:messageID", h.EditMessage)
	r.DELETE("/chats/:chatID/messages/:messageID", h.DeleteMessage)
}

// notifyParticipants marks chat state stale for everyone in the chat.
func (h *ChatHandler) notifyParticipants(c *gin.Context, chatID string) {
	ids, err := h.chats.ParticipantIDs(c.Request.Context(), chatID)
	if err != nil {
		return
	}
	h.dispatcher.SendToUsers(ids, websocket.NewUpdate(websocket.UpdateChats))
}

// List godoc
// @Summary      List the caller's chats
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.Chat
// @Router       /api/chats [get]
func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.chats.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// Create godoc
// @Summary      Create (or return the existing) direct chat with a user
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CreateChatRequest true "Chat target"
// @Success      201 {object} models.Chat
// @Router       /api/chats [post]
func (h *ChatHandler) Create(c *gin.Context) {
	var req models.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chats.CreateOrGet(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyParticipants(c, chat.ID)
	c.JSON(http.StatusCreated, chat)
}

// Get godoc
// @Summary      Fetch one chat with its participants
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Success      200 {object} models.Chat
// @Failure      403 {object} map[string]string
// @Router       /api/chats/{chatID} [get]
func (h *ChatHandler) Get(c *gin.Context) {
	chat, err := h.chats.Get(c.Request.Context(), middleware.UserID(c), c.Param("chatID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Delete godoc
// @Summary      Delete a chat and its messages
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Success      200 {object} map[string]string
// @Router       /api/chats/{chatID} [delete]
func (h *ChatHandler) Delete(c *gin.Context) {
	chatID := c.Param("chatID")

	// Snapshot participants before the rows go away.
	ids, _ := h.chats.ParticipantIDs(c.Request.Context(), chatID)

	if err := h.chats.Delete(c.Request.Context(), middleware.UserID(c), chatID); err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.SendToUsers(ids, websocket.NewUpdate(websocket.UpdateChats))
	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}

// UpdateJobChat godoc
// @Summary      Update the transaction block on a job chat
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Param        request body models.UpdateJobChatRequest true "Transaction fields"
// @Success      200 {object} models.Chat
// @Failure      400 {object} map[string]string
// @Router       /api/chats/{chatID}/transaction [put]
func (h *ChatHandler) UpdateJobChat(c *gin.Context) {
	var req models.UpdateJobChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chats.UpdateJobChat(c.Request.Context(), middleware.UserID(c), c.Param("chatID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyParticipants(c, chat.ID)
	c.JSON(http.StatusOK, chat)
}

// ListMessages godoc
// @Summary      Fetch the decrypted message history of a chat
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Success      200 {array} models.DecryptedMessage
// @Failure      403 {object} map[string]string
// @Router       /api/chats/{chatID}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	msgs, err := h.chats.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("chatID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendMessage godoc
// @Summary      Send a message, creating the chat if needed
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.SendMessageRequest true "Message payload"
// @Success      201 {object} models.DecryptedMessage
// @Router       /api/chats/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, msg, err := h.chats.SendMessage(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyParticipants(c, chat.ID)
	c.JSON(http.StatusCreated, gin.H{"chatID": chat.ID, "message": msg})
}

// EditMessage godoc
// @Summary      Edit the caller's own message
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Param        messageID path string true "Message ID"
// @Param        request body models.EditMessageRequest true "New text"
// @Success      200 {object} models.DecryptedMessage
// @Failure      403 {object} map[string]string
// @Router       /api/chats/{chatID}/messages/{messageID} [put]
func (h *ChatHandler) EditMessage(c *gin.Context) {
	var req models.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chats.EditMessage(c.Request.Context(), middleware.UserID(c), c.Param("chatID"), c.Param("messageID"), req.NewText)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyParticipants(c, c.Param("chatID"))
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage godoc
// @Summary      Delete the caller's own message
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        chatID path string true "Chat ID"
// @Param        messageID path string true "Message ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /api/chats/{chatID}/messages/{messageID} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	err := h.chats.DeleteMessage(c.Request.Context(), middleware.UserID(c), c.Param("chatID"), c.Param("messageID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifyParticipants(c, c.Param("chatID"))
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
