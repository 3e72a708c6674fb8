package converter

import (
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

type RoomResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Repository string    `json:"repository,omitempty"`
	CreatedBy  string    `json:"created_by"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

type ThreadResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	Title     string    `json:"title"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	ThreadID  uuid.UUID  `json:"thread_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Body      string     `json:"body"`
	AuthorID  string     `json:"author_id"`
	CreatedAt time.Time  `json:"created_at"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func RoomToApi(r *domain.RoomWithRole) *RoomResponse {
	return &RoomResponse{
		ID:         r.ID,
		Name:       r.Name,
		Repository: r.Repository,
		CreatedBy:  r.CreatedBy,
		Role:       string(r.Role),
		CreatedAt:  r.CreatedAt,
	}
}

func RoomsToApi(rooms []*domain.RoomWithRole) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomToApi(r))
	}
	return out
}

func ThreadToApi(t *domain.Thread) *ThreadResponse {
	return &ThreadResponse{
		ID:        t.ID,
		RoomID:    t.RoomID,
		Title:     t.Title,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
	}
}

func ThreadsToApi(threads []*domain.Thread) []*ThreadResponse {
	out := make([]*ThreadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, ThreadToApi(t))
	}
	return out
}

func CommentToApi(c *domain.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		ThreadID:  c.ThreadID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
	}
}

func CommentsToApi(comments []*domain.Comment) []*CommentResponse {
	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentToApi(c))
	}
	return out
}

func NotificationToApi(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func NotificationsToApi(notifications []*domain.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationToApi(n))
	}
	return out
}
