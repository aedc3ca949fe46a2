package websocket

import (
	"encoding/json"
	"log/slog"
)

// Dispatcher resolves target users to their live connections and writes a
// serialized event to each. Delivery is best effort: offline users and dead
// sockets are skipped, and no failure ever reaches the calling handler.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// SendToUser writes event to every open connection bound to userID. Zero
// connections means zero writes, not an error.
func (d *Dispatcher) SendToUser(userID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}
	d.sendFrame(userID, data)
}

// SendToUsers writes event to every listed user. The frame is serialized
// once; duplicate IDs in the input get one send per occurrence, matching the
// per-user call semantics.
func (d *Dispatcher) SendToUsers(userIDs []string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}
	for _, userID := range userIDs {
		d.sendFrame(userID, data)
	}
}

// Broadcast writes event to every connection of every registered user.
func (d *Dispatcher) Broadcast(event Event) {
	d.SendToUsers(d.registry.UserIDs(), event)
}

// sendFrame writes the already-serialized frame to each of userID's live
// connections. A failed write never aborts delivery to the remaining ones.
func (d *Dispatcher) sendFrame(userID string, data []byte) {
	for _, client := range d.registry.Connections(userID) {
		if err := client.trySend(data); err != nil {
			slog.Debug("Skipping dead connection", "clientID", client.ID(), "userID", userID)
		}
	}
}
