package websocket

import "sync"

// Registry is the authoritative in-memory mapping from user ID to that
// user's live connections. A user ID is present as a key only while at least
// one connection is bound to it; the entry is dropped the moment the last
// connection goes away. One instance is created at startup and injected into
// the HTTP layer and the socket layer.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[*Client]bool
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]map[*Client]bool),
	}
}

// Register adds client to the set for userID, creating the set if absent.
// Registering the same client twice is a no-op.
func (r *Registry) Register(userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users[userID] == nil {
		r.users[userID] = make(map[*Client]bool)
	}
	r.users[userID][client] = true
}

// Unregister removes client from userID's set and drops the key once the set
// is empty. Unknown users and unregistered clients are no-ops.
func (r *Registry) Unregister(userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(userID, client)
}

// UnregisterClient removes client from whichever set currently holds it.
// Used on transport close when the connection may never have authenticated.
func (r *Registry) UnregisterClient(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, clients := range r.users {
		if clients[client] {
			r.remove(userID, client)
		}
	}
}

// remove assumes r.mu is held.
func (r *Registry) remove(userID string, client *Client) {
	clients, ok := r.users[userID]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(r.users, userID)
	}
}

// Connections returns a snapshot of userID's live connections. The result is
// empty for unknown users, never an error.
func (r *Registry) Connections(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.users[userID]))
	for client := range r.users[userID] {
		clients = append(clients, client)
	}
	return clients
}

// UserIDs returns a snapshot of every user ID with at least one connection.
func (r *Registry) UserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.users))
	for userID := range r.users {
		ids = append(ids, userID)
	}
	return ids
}

// IsOnline reports whether userID has at least one registered connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users[userID]) > 0
}
