package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var ErrClientDisconnected = errors.New("client disconnected")

// PresenceTracker mirrors registry membership into an external store so the
// REST layer can answer "is this user online" without touching the registry.
type PresenceTracker interface {
	SetUserOnline(ctx context.Context, userID string) error
	SetUserOffline(ctx context.Context, userID string) error
}

// Client is one live socket. It starts unauthenticated; the first valid AUTH
// frame binds it to a user ID and registers it. The bound ID never changes
// except through another AUTH frame, and the client is never registered
// under two IDs at once.
type Client struct {
	id       string
	registry *Registry
	presence PresenceTracker
	conn     *websocket.Conn
	send     chan []byte

	mu     sync.RWMutex
	userID string // empty until authenticated

	closed int32

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(registry *Registry, presence PresenceTracker, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:       uuid.New().String(),
		registry: registry,
		presence: presence,
		conn:     conn,
		send:     make(chan []byte, 256),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// UserID returns the bound user ID, or "" while unauthenticated.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

// handleFrame advances the authentication state machine by one inbound
// frame. Anything that does not parse as an AUTH request is dropped without
// closing the connection.
func (c *Client) handleFrame(data []byte) {
	req, ok := ParseAuthRequest(data)
	if !ok {
		return
	}
	c.bind(req.UserID)
}

// bind registers the client under userID. A repeated AUTH with the same ID
// is a no-op; one with a different ID re-binds last-write-wins, removing the
// old registration before adding the new one.
func (c *Client) bind(userID string) {
	c.mu.Lock()
	previous := c.userID
	if previous == userID {
		c.mu.Unlock()
		return
	}
	c.userID = userID
	c.mu.Unlock()

	if previous != "" {
		c.registry.Unregister(previous, c)
		c.trackOffline(previous)
	}
	c.registry.Register(userID, c)

	if c.presence != nil {
		if err := c.presence.SetUserOnline(c.ctx, userID); err != nil {
			slog.Error("Failed to set user online", "userID", userID, "error", err)
		}
	}

	slog.Info("WebSocket authenticated", "clientID", c.id, "userID", userID)
}

// teardown removes the client from the registry exactly once. Safe to call
// for connections that never authenticated.
func (c *Client) teardown() {
	c.close()
	userID := c.UserID()
	c.registry.UnregisterClient(c)
	if userID != "" {
		c.trackOffline(userID)
		slog.Info("WebSocket connection closed", "clientID", c.id, "userID", userID)
	}
}

// trackOffline updates presence only when the last connection for the user
// is gone; the user stays online while other sockets remain registered.
func (c *Client) trackOffline(userID string) {
	if c.presence == nil || c.registry.IsOnline(userID) {
		return
	}
	if err := c.presence.SetUserOffline(context.Background(), userID); err != nil {
		slog.Error("Failed to set user offline", "userID", userID, "error", err)
	}
}

// trySend queues a serialized frame for delivery. A full buffer means the
// peer stopped reading; the client is cut loose rather than blocking the
// dispatch call.
func (c *Client) trySend(data []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientDisconnected
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id, "userID", c.UserID())
		c.close()
		return ErrClientDisconnected
	}
}

func (c *Client) readPump() {
	defer func() {
		c.teardown()
		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		// Each pong also renews the presence TTL.
		if userID := c.UserID(); userID != "" && c.presence != nil {
			if err := c.presence.SetUserOnline(c.ctx, userID); err != nil {
				slog.Debug("Failed to refresh presence", "userID", userID, "error", err)
			}
		}
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.UserID(), "error", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "userID", c.UserID(), "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
