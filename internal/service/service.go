package service

import (
	"context"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

type CollaborationInteractor interface {
	CreateRoom(ctx context.Context, caller, name, repository string) (*domain.RoomWithRole, error)
	ListRooms(ctx context.Context, caller string) ([]*domain.RoomWithRole, error)
	AddParticipant(ctx context.Context, caller string, roomID uuid.UUID, userID string, role domain.Role) error
	RoleOf(ctx context.Context, roomID uuid.UUID, userID string) (domain.Role, error)

	CreateThread(ctx context.Context, caller string, roomID uuid.UUID, title string) (*domain.Thread, error)
	ListThreads(ctx context.Context, caller string, roomID uuid.UUID) ([]*domain.Thread, error)
	CreateComment(ctx context.Context, caller string, threadID uuid.UUID, body string, parentID *uuid.UUID) (*domain.Comment, error)
	ListComments(ctx context.Context, caller string, threadID uuid.UUID) ([]*domain.Comment, error)

	ListNotifications(ctx context.Context, caller string) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, caller string, id uuid.UUID) error
}

type RuleInteractor interface {
	CreateRule(ctx context.Context, caller, name, pattern, message string, severity domain.Severity) (*domain.Rule, error)
	ListRules(ctx context.Context, caller string) ([]*domain.Rule, error)
	SaveFeedback(ctx context.Context, caller string, analysisID uuid.UUID, accepted bool, note string) error
}

type AnalysisInteractor interface {
	Analyze(ctx context.Context, caller string, req domain.AnalysisRequest) (*domain.AnalysisReport, error)
	Analytics(ctx context.Context, caller string) (*domain.Analytics, error)
	Recent(ctx context.Context, caller string, limit int) ([]*domain.AnalysisSummary, error)
}

type OAuthInteractor interface {
	Start(ctx context.Context, caller, provider string) (string, error)
	Callback(ctx context.Context, provider, code, state string) (string, error)
	Connections(ctx context.Context, caller string) ([]*domain.OAuthConnection, error)
	ListRepositories(ctx context.Context, caller, provider string) ([]string, error)
}
