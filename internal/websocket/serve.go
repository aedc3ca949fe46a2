package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by the CORS middleware in front of us.
		return true
	},
}

// ServeWS upgrades the request and starts the read/write pumps for a new,
// still-unauthenticated client. The client only becomes reachable through
// the dispatcher after it sends a valid AUTH frame.
func ServeWS(registry *Registry, presence PresenceTracker, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(registry, presence, conn)
	slog.Info("New WebSocket connection established", "clientID", client.ID())

	go client.writePump()
	go client.readPump()
}
