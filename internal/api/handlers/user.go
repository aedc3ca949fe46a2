package handlers

import (
	"io"
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 5 << 20

type UserHandler struct {
	users      service.UserService
	presence   *service.PresenceService
	dispatcher *websocket.Dispatcher
}

func NewUserHandler(users service.UserService, presence *service.PresenceService, dispatcher *websocket.Dispatcher) *UserHandler {
	return &UserHandler{users: users, presence: presence, dispatcher: dispatcher}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.GET("/users/online", h.OnlineUsers)
	r.GET("/user/:userID", h.GetProfile)
	r.GET("/user/:userID/avatar", h.GetAvatar)
	r.GET("/me", h.Me)
	r.PUT("/profile", h.UpdateProfile)
	r.POST("/profile/avatar", h.UploadAvatar)
}

// ListUsers godoc
// @Summary      List all users (public personas only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.PublicUser
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// OnlineUsers godoc
// @Summary      List user IDs with a live connection
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} string
// @Router       /api/users/online [get]
func (h *UserHandler) OnlineUsers(c *gin.Context) {
	ids, err := h.presence.OnlineUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

// GetProfile godoc
// @Summary      Fetch a user's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        userID path string true "User ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} map[string]string
// @Router       /api/user/{userID} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	pub, profile, err := h.users.PublicProfile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": pub, "profile": profile})
}

// Me godoc
// @Summary      Fetch the authenticated account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.User
// @Router       /api/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} models.Profile
// @Router       /api/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary      Upload or replace the caller's avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar formData file true "Image file"
// @Success      200 {object} map[string]string
// @Router       /api/profile/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file required"})
		return
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar exceeds 5MB limit"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	userID := middleware.UserID(c)
	if err := h.users.UploadAvatar(c.Request.Context(), userID, file, header.Size, contentType); err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
	c.JSON(http.StatusOK, gin.H{"avatar": "/api/user/" + userID + "/avatar"})
}

// GetAvatar godoc
// @Summary      Stream a user's avatar image
// @Tags         users
// @Produce      octet-stream
// @Param        userID path string true "User ID"
// @Success      200
// @Failure      404 {object} map[string]string
// @Router       /api/user/{userID}/avatar [get]
func (h *UserHandler) GetAvatar(c *gin.Context) {
	reader, contentType, err := h.users.FetchAvatar(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}
