package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks which live connections belong to which room and fans events
// out to them. It holds no durable state: a room entry exists exactly as
// long as at least one connection is registered for it.
//
// The hub is created once in main and injected into the gateway; it is
// safe for concurrent use from any number of connection goroutines.
type Hub struct {
	log *slog.Logger

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]bool
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		log:   log,
		rooms: make(map[uuid.UUID]map[*Client]bool),
	}
}

// Register adds the client to its room's membership set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.roomID]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[c.roomID] = clients
	}
	clients[c] = true

	h.log.Debug("client registered",
		slog.String("room_id", c.roomID.String()),
		slog.String("user_id", c.userID),
		slog.Int("room_size", len(clients)),
	)
}

// Unregister removes the client from its room and closes its send queue.
// Unregistering a client that is not registered is a no-op, so disconnect
// paths may call it more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.roomID]
	if !ok || !clients[c] {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, c.roomID)
	}
	c.closeSend()

	h.log.Debug("client unregistered",
		slog.String("room_id", c.roomID.String()),
		slog.String("user_id", c.userID),
	)
}

// Members returns a snapshot of the room's current connections.
func (h *Hub) Members(roomID uuid.UUID) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[roomID]
	out := make([]*Client, 0, len(clients))
	for c := range clients {
		out = append(out, c)
	}
	return out
}

// Broadcast serializes the event once and delivers the identical bytes to
// every connection registered in the room at call time. Delivery is
// fire-and-forget per connection: a client whose send queue is full is
// skipped, and its write pump will tear the connection down on the next
// failed write.
func (h *Hub) Broadcast(roomID uuid.UUID, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal broadcast event",
			slog.String("room_id", roomID.String()),
			slog.String("type", event.Type),
		)
		return
	}

	for _, c := range h.Members(roomID) {
		select {
		case <-c.done:
		case c.send <- message:
		default:
			h.log.Warn("client send queue full, dropping message",
				slog.String("room_id", roomID.String()),
				slog.String("user_id", c.userID),
			)
		}
	}
}
