package repository

import (
	"context"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

type CollaborationRepository interface {
	// CreateRoomWithOwner persists the room and its auto-assigned owner
	// participant atomically: either both become visible or neither.
	CreateRoomWithOwner(ctx context.Context, room *domain.Room, owner *domain.Participant) error
	GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	ListRoomsForUser(ctx context.Context, userID string) ([]*domain.RoomWithRole, error)

	RoleOf(ctx context.Context, roomID uuid.UUID, userID string) (domain.Role, error)
	UpsertParticipant(ctx context.Context, participant *domain.Participant) error
	ListParticipants(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error)

	CreateThread(ctx context.Context, thread *domain.Thread) error
	GetThread(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	ListThreads(ctx context.Context, roomID uuid.UUID) ([]*domain.Thread, error)

	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListComments(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error)

	CreateNotification(ctx context.Context, notification *domain.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error
}

type RuleRepository interface {
	Create(ctx context.Context, rule *domain.Rule) error
	ListForUser(ctx context.Context, userID string) ([]*domain.Rule, error)
	SaveFeedback(ctx context.Context, feedback *domain.Feedback) error
}

type AnalysisRepository interface {
	Save(ctx context.Context, report *domain.AnalysisReport) error
	Analytics(ctx context.Context, userID string) (*domain.Analytics, error)
	Recent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisSummary, error)
}

type OAuthRepository interface {
	Upsert(ctx context.Context, connection *domain.OAuthConnection) error
	ListForUser(ctx context.Context, userID string) ([]*domain.OAuthConnection, error)
	AccessToken(ctx context.Context, userID, provider string) (string, error)
}
