package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendQueueSize = 256
)

// Client is one live connection scoped to exactly one room. Outbound
// messages go through a buffered queue drained by WritePump, so a slow
// peer never blocks the goroutine that produced the message.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID uuid.UUID
	userID string

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID uuid.UUID, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		roomID: roomID,
		userID: userID,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) RoomID() uuid.UUID { return c.roomID }
func (c *Client) UserID() string    { return c.userID }

// closeSend signals the write pump to flush and exit. Safe to call from
// any goroutine, any number of times.
func (c *Client) closeSend() {
	c.once.Do(func() { close(c.done) })
}

// ReadPump relays every inbound text payload to the room, in arrival
// order, until the connection dies. Any receive error is a disconnect:
// the client is unregistered and a leave status is announced to the room.
func (c *Client) ReadPump() {
	log := c.hub.log.With(
		slog.String("room_id", c.roomID.String()),
		slog.String("user_id", c.userID),
	)

	defer func() {
		c.hub.Unregister(c)
		c.hub.Broadcast(c.roomID, StatusEvent("A reviewer left"))
		c.conn.Close()
		log.Info("read pump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.Broadcast(c.roomID, CommentEvent(message))
	}
}

// WritePump drains the send queue into the websocket and keeps the
// connection alive with pings. A failed write removes only this client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Warn("websocket write failed",
					slog.String("room_id", c.roomID.String()),
					slog.String("user_id", c.userID),
					slog.Any("error", err),
				)
				c.hub.Unregister(c)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Unregister(c)
				return
			}
		}
	}
}
