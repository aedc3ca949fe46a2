package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainFrames collects everything queued on the client's send channel.
func drainFrames(c *Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case data := <-c.send:
			frames = append(frames, data)
		default:
			return frames
		}
	}
}

func TestSendToUserReachesEveryConnection(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	c1 := newTestClient(registry)
	c2 := newTestClient(registry)
	registry.Register("u1", c1)
	registry.Register("u1", c2)

	dispatcher.SendToUser("u1", NewUpdate(UpdateFriends))

	for _, c := range []*Client{c1, c2} {
		frames := drainFrames(c)
		require.Len(t, frames, 1)

		var event Event
		require.NoError(t, json.Unmarshal(frames[0], &event))
		assert.Equal(t, TypeUpdate, event.Type)
		assert.Equal(t, UpdateFriends, event.Update)
	}
}

func TestSendToOfflineUserIsSilent(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)

	assert.NotPanics(t, func() {
		dispatcher.SendToUser("nobody", NewUpdate(UpdateRefresh))
	})
}

func TestBroadcastWritesOncePerConnection(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	a1 := newTestClient(registry)
	b1 := newTestClient(registry)
	b2 := newTestClient(registry)
	registry.Register("a", a1)
	registry.Register("b", b1)
	registry.Register("b", b2)

	dispatcher.Broadcast(NewUpdate(UpdateRefresh))

	var frames [][]byte
	for _, c := range []*Client{a1, b1, b2} {
		got := drainFrames(c)
		require.Len(t, got, 1)
		frames = append(frames, got[0])
	}

	// Every recipient got byte-identical content.
	assert.Equal(t, frames[0], frames[1])
	assert.Equal(t, frames[1], frames[2])
}

func TestDispatchSkipsClosedConnection(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	stale := newTestClient(registry)
	live := newTestClient(registry)
	registry.Register("u1", stale)
	registry.Register("u1", live)

	stale.close()

	assert.NotPanics(t, func() {
		dispatcher.SendToUser("u1", NewUpdate(UpdateChats))
	})
	assert.Empty(t, drainFrames(stale))
	assert.Len(t, drainFrames(live), 1)
}

func TestSendToUsersDoesNotDedupeInput(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	c1 := newTestClient(registry)
	c2 := newTestClient(registry)
	registry.Register("u1", c1)
	registry.Register("u2", c2)

	dispatcher.SendToUsers([]string{"u1", "u1", "u2"}, NewUpdate(UpdateChats))

	// One send per occurrence in the input.
	assert.Len(t, drainFrames(c1), 2)
	assert.Len(t, drainFrames(c2), 1)
}

func TestDispatchSerializesEventPayload(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry)
	client := newTestClient(registry)
	registry.Register("u1", client)

	event := NewUpdate(UpdateUser)
	event.Data = map[string]string{"reason": "friend_request"}
	dispatcher.SendToUser("u1", event)

	frames := drainFrames(client)
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"type":"UPDATE_DATA","update":"user","data":{"reason":"friend_request"}}`, string(frames[0]))
}
