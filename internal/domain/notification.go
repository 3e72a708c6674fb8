package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is supplementary state produced by the room fan-out;
// it is never authoritative and is only ever mutated by "mark read".
type Notification struct {
	ID        uuid.UUID
	UserID    string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

func NewNotification(userID, title, body string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
