package handlers

import (
	"github.com/gin-gonic/gin"

	"maskoff-server/internal/websocket"
)

// WebSocketHandler exposes the notification socket endpoint. The socket is
// deliberately outside the auth middleware: a connection authenticates itself
// with an AUTH frame after the upgrade.
type WebSocketHandler struct {
	registry *websocket.Registry
	presence websocket.PresenceTracker
}

func NewWebSocketHandler(registry *websocket.Registry, presence websocket.PresenceTracker) *WebSocketHandler {
	return &WebSocketHandler{registry: registry, presence: presence}
}

func (h *WebSocketHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.Serve)
}

// Serve godoc
// @Summary      Upgrade to the notification WebSocket
// @Tags         websocket
// @Router       /ws [get]
func (h *WebSocketHandler) Serve(c *gin.Context) {
	websocket.ServeWS(h.registry, h.presence, c.Writer, c.Request)
}
