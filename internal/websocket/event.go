package websocket

import "encoding/json"

// Frame type discriminators shared with the frontend client.
const (
	TypeAuth   = "AUTH"
	TypeUpdate = "UPDATE_DATA"
)

// UpdateKind names the slice of client state that became stale.
type UpdateKind string

const (
	UpdateFriends UpdateKind = "friends"
	UpdateChats   UpdateKind = "chats"
	UpdateUser    UpdateKind = "user"
	UpdateRefresh UpdateKind = "refresh"
)

// Event is the outbound notification frame. It is serialized once per
// dispatch call and the same bytes are written to every recipient.
type Event struct {
	Type   string     `json:"type"`
	Update UpdateKind `json:"update,omitempty"`
	Data   any        `json:"data,omitempty"`
}

// NewUpdate builds the generic "state changed" event the REST handlers emit
// after a successful mutation.
func NewUpdate(kind UpdateKind) Event {
	return Event{Type: TypeUpdate, Update: kind}
}

// AuthRequest is the only inbound frame the notification subsystem
// understands. Everything else read from a socket is ignored.
type AuthRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userID"`
}

// ParseAuthRequest decodes data as an authentication frame. It reports false
// for malformed JSON, a wrong type discriminator, or an empty user ID; none
// of those are errors, the connection simply stays unauthenticated.
func ParseAuthRequest(data []byte) (AuthRequest, bool) {
	var req AuthRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return AuthRequest{}, false
	}
	if req.Type != TypeAuth || req.UserID == "" {
		return AuthRequest{}, false
	}
	return req, true
}
