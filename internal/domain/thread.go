package domain

import (
	"time"

	"github.com/google/uuid"
)

// Thread is a top-level discussion unit inside a room.
type Thread struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	Title     string
	CreatedBy string
	CreatedAt time.Time
}

func NewThread(roomID uuid.UUID, title, createdBy string) *Thread {
	return &Thread{
		ID:        uuid.New(),
		RoomID:    roomID,
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
}

// Comment belongs to exactly one thread. ParentID, when set, references
// another comment of the same thread.
type Comment struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	ParentID  *uuid.UUID
	Body      string
	AuthorID  string
	CreatedAt time.Time
}

func NewComment(threadID uuid.UUID, parentID *uuid.UUID, body, authorID string) *Comment {
	return &Comment{
		ID:        uuid.New(),
		ThreadID:  threadID,
		ParentID:  parentID,
		Body:      body,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
}
