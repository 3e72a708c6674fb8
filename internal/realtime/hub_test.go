package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, roomID uuid.UUID, userID string) *Client {
	return NewClient(h, nil, roomID, userID)
}

func TestHub_RegisterConcurrent(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()

	const n = 32
	clients := make([]*Client, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		clients[i] = newTestClient(hub, roomID, fmt.Sprintf("user-%d", i))
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			hub.Register(c)
		}(clients[i])
	}
	wg.Wait()

	members := hub.Members(roomID)
	require.Len(t, members, n)

	seen := make(map[*Client]bool, n)
	for _, m := range members {
		seen[m] = true
	}
	for _, c := range clients {
		assert.True(t, seen[c], "every registered client is a member exactly once")
	}
}

func TestHub_BroadcastReachesAllMembers(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()
	other := uuid.New()

	a := newTestClient(hub, roomID, "alice")
	b := newTestClient(hub, roomID, "bob")
	outsider := newTestClient(hub, other, "eve")
	hub.Register(a)
	hub.Register(b)
	hub.Register(outsider)

	hub.Broadcast(roomID, StatusEvent("A reviewer joined"))

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, EventStatus, event.Type)
			assert.Equal(t, "A reviewer joined", event.Message)
		default:
			t.Fatalf("client %s received nothing", c.userID)
		}
	}

	select {
	case <-outsider.send:
		t.Fatal("broadcast leaked into another room")
	default:
	}
}

func TestHub_BroadcastPreservesCommentPayload(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()
	c := newTestClient(hub, roomID, "alice")
	hub.Register(c)

	payload := []byte(`{"body":"looks off","line":42}`)
	hub.Broadcast(roomID, CommentEvent(payload))

	raw := <-c.send
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, EventComment, event.Type)
	assert.JSONEq(t, string(payload), string(event.Payload), "payload relays verbatim")
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()
	a := newTestClient(hub, roomID, "alice")
	b := newTestClient(hub, roomID, "bob")
	hub.Register(a)
	hub.Register(b)

	hub.Unregister(a)
	require.Len(t, hub.Members(roomID), 1)

	hub.Broadcast(roomID, StatusEvent("A reviewer left"))

	select {
	case <-b.send:
	default:
		t.Fatal("remaining member missed the broadcast")
	}
	select {
	case raw, ok := <-a.send:
		if ok {
			t.Fatalf("removed member still received %s", raw)
		}
	default:
	}

	// Double unregister must not panic or disturb the room.
	hub.Unregister(a)
	assert.Len(t, hub.Members(roomID), 1)
}

func TestHub_LastLeaveDropsRoom(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()
	c := newTestClient(hub, roomID, "alice")
	hub.Register(c)
	hub.Unregister(c)

	assert.Empty(t, hub.Members(roomID))
	hub.mu.RLock()
	_, exists := hub.rooms[roomID]
	hub.mu.RUnlock()
	assert.False(t, exists, "empty room entries are removed")
}

func TestHub_ConcurrentChurn(t *testing.T) {
	hub := NewHub(nil)
	roomID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newTestClient(hub, roomID, fmt.Sprintf("user-%d", i))
			hub.Register(c)
			hub.Broadcast(roomID, StatusEvent("A reviewer joined"))
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, hub.Members(roomID))
}
