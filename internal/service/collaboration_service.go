package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/lib/logger/sl"
	"github.com/google/uuid"
)

const (
	notificationsLimit = 50
	commentPreviewLen  = 120
)

// CollaborationService owns rooms, threads, comments and the notification
// fan-out that accompanies new review activity.
type CollaborationService struct {
	repo repository.CollaborationRepository
	log  *slog.Logger
}

func NewCollaborationService(repo repository.CollaborationRepository, log *slog.Logger) *CollaborationService {
	return &CollaborationService{repo: repo, log: log}
}

func (s *CollaborationService) CreateRoom(ctx context.Context, caller, name, repositoryName string) (*domain.RoomWithRole, error) {
	const op = "service.collaboration.CreateRoom"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w: room name is required", op, ErrInvalidInput)
	}
	room := domain.NewRoom(name, strings.TrimSpace(repositoryName), caller)
	owner := domain.NewParticipant(room.ID, caller, domain.RoleOwner)
	if err := s.repo.CreateRoomWithOwner(ctx, room, owner); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &domain.RoomWithRole{Room: *room, Role: domain.RoleOwner}, nil
}

func (s *CollaborationService) ListRooms(ctx context.Context, caller string) ([]*domain.RoomWithRole, error) {
	const op = "service.collaboration.ListRooms"
	rooms, err := s.repo.ListRoomsForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rooms, nil
}

// AddParticipant adds a user to a room or changes their role. Only the
// room owner may do this; adding an existing participant updates the role.
func (s *CollaborationService) AddParticipant(ctx context.Context, caller string, roomID uuid.UUID, userID string, role domain.Role) error {
	const op = "service.collaboration.AddParticipant"
	if !role.Valid() {
		return fmt.Errorf("%s: %w: %q", op, ErrInvalidRole, role)
	}
	if userID == "" {
		return fmt.Errorf("%s: %w: user id is required", op, ErrInvalidInput)
	}
	callerRole, err := s.repo.RoleOf(ctx, roomID, caller)
	if err != nil {
		if err == repository.ErrParticipantNotFound {
			return fmt.Errorf("%s: %w", op, ErrOwnerRequired)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if callerRole != domain.RoleOwner {
		return fmt.Errorf("%s: %w", op, ErrOwnerRequired)
	}
	participant := domain.NewParticipant(roomID, userID, role)
	if err := s.repo.UpsertParticipant(ctx, participant); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RoleOf reports the caller's role in the room. The realtime gateway uses
// it to gate joins with the same check the REST surface applies.
func (s *CollaborationService) RoleOf(ctx context.Context, roomID uuid.UUID, userID string) (domain.Role, error) {
	role, err := s.repo.RoleOf(ctx, roomID, userID)
	if err != nil {
		if err == repository.ErrParticipantNotFound {
			return "", ErrNotParticipant
		}
		return "", err
	}
	return role, nil
}

func (s *CollaborationService) CreateThread(ctx context.Context, caller string, roomID uuid.UUID, title string) (*domain.Thread, error) {
	const op = "service.collaboration.CreateThread"
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w: thread title is required", op, ErrInvalidInput)
	}
	if err := s.requireWrite(ctx, roomID, caller); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	thread := domain.NewThread(roomID, title, caller)
	if err := s.repo.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.notifyRoom(ctx, roomID, caller, "New review thread", thread.Title)
	return thread, nil
}

func (s *CollaborationService) ListThreads(ctx context.Context, caller string, roomID uuid.UUID) ([]*domain.Thread, error) {
	const op = "service.collaboration.ListThreads"
	if _, err := s.repo.RoleOf(ctx, roomID, caller); err != nil {
		if err == repository.ErrParticipantNotFound {
			return nil, fmt.Errorf("%s: %w", op, ErrNotParticipant)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	threads, err := s.repo.ListThreads(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return threads, nil
}

func (s *CollaborationService) CreateComment(ctx context.Context, caller string, threadID uuid.UUID, body string, parentID *uuid.UUID) (*domain.Comment, error) {
	const op = "service.collaboration.CreateComment"
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%s: %w: comment body is required", op, ErrInvalidInput)
	}
	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.requireWrite(ctx, thread.RoomID, caller); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if parentID != nil {
		parent, err := s.repo.GetComment(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if parent.ThreadID != threadID {
			return nil, fmt.Errorf("%s: %w", op, ErrParentMismatch)
		}
	}
	comment := domain.NewComment(threadID, parentID, body, caller)
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.notifyRoom(ctx, thread.RoomID, caller, "New review comment", preview(body))
	return comment, nil
}

func (s *CollaborationService) ListComments(ctx context.Context, caller string, threadID uuid.UUID) ([]*domain.Comment, error) {
	const op = "service.collaboration.ListComments"
	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.RoleOf(ctx, thread.RoomID, caller); err != nil {
		if err == repository.ErrParticipantNotFound {
			return nil, fmt.Errorf("%s: %w", op, ErrNotParticipant)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := s.repo.ListComments(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

func (s *CollaborationService) ListNotifications(ctx context.Context, caller string) ([]*domain.Notification, error) {
	const op = "service.collaboration.ListNotifications"
	notifications, err := s.repo.ListNotifications(ctx, caller, notificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notifications, nil
}

func (s *CollaborationService) MarkNotificationRead(ctx context.Context, caller string, id uuid.UUID) error {
	const op = "service.collaboration.MarkNotificationRead"
	if err := s.repo.MarkNotificationRead(ctx, id, caller); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *CollaborationService) requireWrite(ctx context.Context, roomID uuid.UUID, userID string) error {
	role, err := s.repo.RoleOf(ctx, roomID, userID)
	if err != nil {
		if err == repository.ErrParticipantNotFound {
			return ErrNotParticipant
		}
		return err
	}
	if !role.CanWrite() {
		return ErrInsufficientRole
	}
	return nil
}

// notifyRoom delivers a notification to every participant except the actor.
// A failed recipient is logged and skipped so one bad row cannot block the
// write that triggered it.
func (s *CollaborationService) notifyRoom(ctx context.Context, roomID uuid.UUID, actor, title, body string) {
	participants, err := s.repo.ListParticipants(ctx, roomID)
	if err != nil {
		s.log.Warn("notification fan-out aborted", slog.String("room_id", roomID.String()), sl.Err(err))
		return
	}
	for _, p := range participants {
		if p.UserID == actor {
			continue
		}
		n := domain.NewNotification(p.UserID, title, body)
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			s.log.Warn("notification delivery failed",
				slog.String("room_id", roomID.String()),
				slog.String("user_id", p.UserID),
				sl.Err(err),
			)
		}
	}
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= commentPreviewLen {
		return body
	}
	return string(runes[:commentPreviewLen])
}
