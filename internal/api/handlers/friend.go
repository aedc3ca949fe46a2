package handlers

import (
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friends    service.FriendService
	dispatcher *websocket.Dispatcher
}

func NewFriendHandler(friends service.FriendService, dispatcher *websocket.Dispatcher) *FriendHandler {
	return &FriendHandler{friends: friends, dispatcher: dispatcher}
}

func (h *FriendHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/friends", h.ListFriends)
	r.GET("/friends/requests", h.ListRequests)
	r.POST("/friends/request", h.SendRequest)
	r.POST("/friends/accept", h.AcceptRequest)
	r.POST("/friends/reject", h.RejectRequest)
	r.DELETE("/friends/:friendID", h.RemoveFriend)
}

// notifyPair tells both sides their friend state went stale.
func (h *FriendHandler) notifyPair(a, b string) {
	h.dispatcher.SendToUsers([]string{a, b}, websocket.NewUpdate(websocket.UpdateFriends))
}

// ListFriends godoc
// @Summary      List the caller's friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.FriendInfo
// @Router       /api/friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// ListRequests godoc
// @Summary      List incoming friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.FriendInfo
// @Router       /api/friends/requests [get]
func (h *FriendHandler) ListRequests(c *gin.Context) {
	reqs, err := h.friends.ListRequests(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// SendRequest godoc
// @Summary      Send a friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.FriendActionRequest true "Target user"
// @Success      200 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /api/friends/request [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req models.FriendActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if err := h.friends.SendRequest(c.Request.Context(), userID, req.FriendID); err != nil {
		respondError(c, err)
		return
	}

	h.notifyPair(userID, req.FriendID)
	c.JSON(http.StatusOK, gin.H{"message": "friend request sent"})
}

// AcceptRequest godoc
// @Summary      Accept a pending friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.FriendActionRequest true "Request sender"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/friends/accept [post]
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	var req models.FriendActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if err := h.friends.AcceptRequest(c.Request.Context(), userID, req.FriendID); err != nil {
		respondError(c, err)
		return
	}

	h.notifyPair(userID, req.FriendID)
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}

// RejectRequest godoc
// @Summary      Reject a pending friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.FriendActionRequest true "Request sender"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /api/friends/reject [post]
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	var req models.FriendActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if err := h.friends.RejectRequest(c.Request.Context(), userID, req.FriendID); err != nil {
		respondError(c, err)
		return
	}

	h.notifyPair(userID, req.FriendID)
	c.JSON(http.StatusOK, gin.H{"message": "friend request rejected"})
}

// RemoveFriend godoc
// @Summary      Remove an existing friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        friendID path string true "Friend user ID"
// @Success      200 {object} map[string]string
// @Router       /api/friends/{friendID} [delete]
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	userID := middleware.UserID(c)
	friendID := c.Param("friendID")
	if err := h.friends.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		respondError(c, err)
		return
	}

	h.notifyPair(userID, friendID)
	c.JSON(http.StatusOK, gin.H{"message": "friend removed"})
}
