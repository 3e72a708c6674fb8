package repository

import (
	"context"
	"errors"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrThreadNotFound       = errors.New("thread not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrConnectionNotFound   = errors.New("oauth connection not found")
)

type PostgresCollaborationRepository struct {
	db *gorm.DB
}

func NewPostgresCollaborationRepository(db *gorm.DB) *PostgresCollaborationRepository {
	return &PostgresCollaborationRepository{db: db}
}

func (r *PostgresCollaborationRepository) CreateRoomWithOwner(ctx context.Context, room *domain.Room, owner *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil || owner == nil {
		return errors.New("room and owner are required")
	}

	roomModel := toModelRoom(room)
	ownerModel := toModelParticipant(owner)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(roomModel).Error; err != nil {
			return err
		}
		return tx.Create(ownerModel).Error
	})
}

func (r *PostgresCollaborationRepository) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room model.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	return toDomainRoom(&room), nil
}

func (r *PostgresCollaborationRepository) ListRoomsForUser(ctx context.Context, userID string) ([]*domain.RoomWithRole, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type roomRoleRow struct {
		ID         uuid.UUID
		Name       string
		Repository *string
		CreatedBy  string
		CreatedAt  time.Time
		Role       string
	}

	var rows []roomRoleRow
	err := r.db.WithContext(ctx).
		Table("rooms").
		Select("rooms.id, rooms.name, rooms.repository, rooms.created_by, rooms.created_at, participants.role").
		Joins("JOIN participants ON participants.room_id = rooms.id").
		Where("participants.user_id = ?", userID).
		Order("rooms.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.RoomWithRole, 0, len(rows))
	for _, row := range rows {
		repo := ""
		if row.Repository != nil {
			repo = *row.Repository
		}
		result = append(result, &domain.RoomWithRole{
			Room: domain.Room{
				ID:         row.ID,
				Name:       row.Name,
				Repository: repo,
				CreatedBy:  row.CreatedBy,
				CreatedAt:  row.CreatedAt.UTC(),
			},
			Role: domain.Role(row.Role),
		})
	}

	return result, nil
}

func (r *PostgresCollaborationRepository) RoleOf(ctx context.Context, roomID uuid.UUID, userID string) (domain.Role, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var participant model.Participant
	err := r.db.WithContext(ctx).
		First(&participant, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrParticipantNotFound
		}
		return "", err
	}

	return domain.Role(participant.Role), nil
}

func (r *PostgresCollaborationRepository) UpsertParticipant(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if participant == nil {
		return errors.New("participant is nil")
	}

	participantModel := toModelParticipant(participant)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(participantModel).Error
}

func (r *PostgresCollaborationRepository) ListParticipants(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var participants []model.Participant
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Participant, 0, len(participants))
	for i := range participants {
		result = append(result, toDomainParticipant(&participants[i]))
	}
	return result, nil
}

func (r *PostgresCollaborationRepository) CreateThread(ctx context.Context, thread *domain.Thread) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if thread == nil {
		return errors.New("thread is nil")
	}

	return r.db.WithContext(ctx).Create(toModelThread(thread)).Error
}

func (r *PostgresCollaborationRepository) GetThread(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var thread model.Thread
	err := r.db.WithContext(ctx).First(&thread, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, err
	}

	return toDomainThread(&thread), nil
}

func (r *PostgresCollaborationRepository) ListThreads(ctx context.Context, roomID uuid.UUID) ([]*domain.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var threads []model.Thread
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Thread, 0, len(threads))
	for i := range threads {
		result = append(result, toDomainThread(&threads[i]))
	}
	return result, nil
}

func (r *PostgresCollaborationRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if comment == nil {
		return errors.New("comment is nil")
	}

	return r.db.WithContext(ctx).Create(toModelComment(comment)).Error
}

func (r *PostgresCollaborationRepository) GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	return toDomainComment(&comment), nil
}

func (r *PostgresCollaborationRepository) ListComments(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Comment, 0, len(comments))
	for i := range comments {
		result = append(result, toDomainComment(&comments[i]))
	}
	return result, nil
}

func (r *PostgresCollaborationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notification == nil {
		return errors.New("notification is nil")
	}

	return r.db.WithContext(ctx).Create(toModelNotification(notification)).Error
}

func (r *PostgresCollaborationRepository) ListNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var notifications []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Notification, 0, len(notifications))
	for i := range notifications {
		result = append(result, toDomainNotification(&notifications[i]))
	}
	return result, nil
}

func (r *PostgresCollaborationRepository) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func toModelRoom(room *domain.Room) *model.Room {
	var repo *string
	if room.Repository != "" {
		v := room.Repository
		repo = &v
	}
	return &model.Room{
		ID:         room.ID,
		Name:       room.Name,
		Repository: repo,
		CreatedBy:  room.CreatedBy,
		CreatedAt:  room.CreatedAt.UTC(),
	}
}

func toDomainRoom(room *model.Room) *domain.Room {
	repo := ""
	if room.Repository != nil {
		repo = *room.Repository
	}
	return &domain.Room{
		ID:         room.ID,
		Name:       room.Name,
		Repository: repo,
		CreatedBy:  room.CreatedBy,
		CreatedAt:  room.CreatedAt.UTC(),
	}
}

func toModelParticipant(participant *domain.Participant) *model.Participant {
	return &model.Participant{
		ID:     participant.ID,
		RoomID: participant.RoomID,
		UserID: participant.UserID,
		Role:   string(participant.Role),
	}
}

func toDomainParticipant(participant *model.Participant) *domain.Participant {
	return &domain.Participant{
		ID:     participant.ID,
		RoomID: participant.RoomID,
		UserID: participant.UserID,
		Role:   domain.Role(participant.Role),
	}
}

func toModelThread(thread *domain.Thread) *model.Thread {
	return &model.Thread{
		ID:        thread.ID,
		RoomID:    thread.RoomID,
		Title:     thread.Title,
		CreatedBy: thread.CreatedBy,
		CreatedAt: thread.CreatedAt.UTC(),
	}
}

func toDomainThread(thread *model.Thread) *domain.Thread {
	return &domain.Thread{
		ID:        thread.ID,
		RoomID:    thread.RoomID,
		Title:     thread.Title,
		CreatedBy: thread.CreatedBy,
		CreatedAt: thread.CreatedAt.UTC(),
	}
}

func toModelComment(comment *domain.Comment) *model.Comment {
	return &model.Comment{
		ID:        comment.ID,
		ThreadID:  comment.ThreadID,
		ParentID:  comment.ParentID,
		Body:      comment.Body,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt.UTC(),
	}
}

func toDomainComment(comment *model.Comment) *domain.Comment {
	return &domain.Comment{
		ID:        comment.ID,
		ThreadID:  comment.ThreadID,
		ParentID:  comment.ParentID,
		Body:      comment.Body,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt.UTC(),
	}
}

func toModelNotification(notification *domain.Notification) *model.Notification {
	return &model.Notification{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Body:      notification.Body,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt.UTC(),
	}
}

func toDomainNotification(notification *model.Notification) *domain.Notification {
	return &domain.Notification{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Title:     notification.Title,
		Body:      notification.Body,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt.UTC(),
	}
}
