package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleReviewer Role = "reviewer"
	RoleViewer   Role = "viewer"
)

// CanWrite reports whether the role may create threads and comments.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleReviewer
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleReviewer, RoleViewer:
		return true
	}
	return false
}

// Room is a named collaboration space, optionally bound to one repository.
type Room struct {
	ID         uuid.UUID
	Name       string
	Repository string
	CreatedBy  string
	CreatedAt  time.Time
}

// RoomWithRole is a room joined with the caller's participant role.
type RoomWithRole struct {
	Room
	Role Role
}

func NewRoom(name, repository, createdBy string) *Room {
	return &Room{
		ID:         uuid.New(),
		Name:       name,
		Repository: repository,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC(),
	}
}

// Participant binds a user to a room with a role. Absence of a binding
// means no access at all.
type Participant struct {
	ID     uuid.UUID
	RoomID uuid.UUID
	UserID string
	Role   Role
}

func NewParticipant(roomID uuid.UUID, userID string, role Role) *Participant {
	return &Participant{
		ID:     uuid.New(),
		RoomID: roomID,
		UserID: userID,
		Role:   role,
	}
}
