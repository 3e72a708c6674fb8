package realtime

import "encoding/json"

const (
	EventStatus  = "status"
	EventComment = "comment"
)

// Event is the wire format of everything broadcast into a room.
// Status events are server-originated; comment events carry the client
// payload verbatim.
type Event struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func StatusEvent(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

func CommentEvent(payload []byte) Event {
	return Event{Type: EventComment, Payload: json.RawMessage(payload)}
}
