package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

// In-memory implementations backing tests and local development without
// a database. They mirror the postgres repositories' contracts, including
// sentinel errors.

type InMemoryCollaborationRepository struct {
	mu            sync.RWMutex
	rooms         map[uuid.UUID]*domain.Room
	participants  map[uuid.UUID]map[string]*domain.Participant
	threads       map[uuid.UUID]*domain.Thread
	comments      map[uuid.UUID]*domain.Comment
	notifications map[uuid.UUID]*domain.Notification
}

func NewInMemoryCollaborationRepository() *InMemoryCollaborationRepository {
	return &InMemoryCollaborationRepository{
		rooms:         make(map[uuid.UUID]*domain.Room),
		participants:  make(map[uuid.UUID]map[string]*domain.Participant),
		threads:       make(map[uuid.UUID]*domain.Thread),
		comments:      make(map[uuid.UUID]*domain.Comment),
		notifications: make(map[uuid.UUID]*domain.Notification),
	}
}

func (r *InMemoryCollaborationRepository) CreateRoomWithOwner(ctx context.Context, room *domain.Room, owner *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil || owner == nil {
		return errors.New("room and owner are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID] = room
	r.participants[room.ID] = map[string]*domain.Participant{owner.UserID: owner}
	return nil
}

func (r *InMemoryCollaborationRepository) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (r *InMemoryCollaborationRepository) ListRoomsForUser(ctx context.Context, userID string) ([]*domain.RoomWithRole, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.RoomWithRole
	for roomID, members := range r.participants {
		participant, ok := members[userID]
		if !ok {
			continue
		}
		room := r.rooms[roomID]
		if room == nil {
			continue
		}
		result = append(result, &domain.RoomWithRole{Room: *room, Role: participant.Role})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryCollaborationRepository) RoleOf(ctx context.Context, roomID uuid.UUID, userID string) (domain.Role, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	participant, ok := r.participants[roomID][userID]
	if !ok {
		return "", ErrParticipantNotFound
	}
	return participant.Role, nil
}

func (r *InMemoryCollaborationRepository) UpsertParticipant(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if participant == nil {
		return errors.New("participant is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.participants[participant.RoomID]
	if !ok {
		members = make(map[string]*domain.Participant)
		r.participants[participant.RoomID] = members
	}
	if existing, ok := members[participant.UserID]; ok {
		existing.Role = participant.Role
		return nil
	}
	members[participant.UserID] = participant
	return nil
}

func (r *InMemoryCollaborationRepository) ListParticipants(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.participants[roomID]
	result := make([]*domain.Participant, 0, len(members))
	for _, participant := range members {
		result = append(result, participant)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (r *InMemoryCollaborationRepository) CreateThread(ctx context.Context, thread *domain.Thread) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if thread == nil {
		return errors.New("thread is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[thread.RoomID]; !ok {
		return ErrRoomNotFound
	}
	r.threads[thread.ID] = thread
	return nil
}

func (r *InMemoryCollaborationRepository) GetThread(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	thread, ok := r.threads[id]
	if !ok {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

func (r *InMemoryCollaborationRepository) ListThreads(ctx context.Context, roomID uuid.UUID) ([]*domain.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Thread
	for _, thread := range r.threads {
		if thread.RoomID == roomID {
			result = append(result, thread)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryCollaborationRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if comment == nil {
		return errors.New("comment is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.threads[comment.ThreadID]; !ok {
		return ErrThreadNotFound
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *InMemoryCollaborationRepository) GetComment(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (r *InMemoryCollaborationRepository) ListComments(ctx context.Context, threadID uuid.UUID) ([]*domain.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Comment
	for _, comment := range r.comments {
		if comment.ThreadID == threadID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryCollaborationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notification == nil {
		return errors.New("notification is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[notification.ID] = notification
	return nil
}

func (r *InMemoryCollaborationRepository) ListNotifications(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryCollaborationRepository) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	notification, ok := r.notifications[id]
	if !ok || notification.UserID != userID {
		return ErrNotificationNotFound
	}
	notification.Read = true
	return nil
}

type InMemoryRuleRepository struct {
	mu       sync.RWMutex
	rules    map[uuid.UUID]*domain.Rule
	feedback []*domain.Feedback
}

func NewInMemoryRuleRepository() *InMemoryRuleRepository {
	return &InMemoryRuleRepository{rules: make(map[uuid.UUID]*domain.Rule)}
}

func (r *InMemoryRuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rule == nil {
		return errors.New("rule is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = rule
	return nil
}

func (r *InMemoryRuleRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Rule
	for _, rule := range r.rules {
		if rule.UserID == userID {
			result = append(result, rule)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRuleRepository) SaveFeedback(ctx context.Context, feedback *domain.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if feedback == nil {
		return errors.New("feedback is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, feedback)
	return nil
}

type InMemoryAnalysisRepository struct {
	mu      sync.RWMutex
	reports []*domain.AnalysisReport
}

func NewInMemoryAnalysisRepository() *InMemoryAnalysisRepository {
	return &InMemoryAnalysisRepository{}
}

func (r *InMemoryAnalysisRepository) Save(ctx context.Context, report *domain.AnalysisReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return errors.New("report is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *InMemoryAnalysisRepository) Analytics(ctx context.Context, userID string) (*domain.Analytics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	analytics := &domain.Analytics{RecentLanguages: []string{}}
	var sum float64
	for i := len(r.reports) - 1; i >= 0; i-- {
		report := r.reports[i]
		if report.UserID != userID {
			continue
		}
		analytics.TotalAnalyses++
		sum += report.Score
		if report.Score < 0.5 {
			analytics.HighRiskCount++
		}
		if len(analytics.RecentLanguages) < 5 {
			analytics.RecentLanguages = append(analytics.RecentLanguages, report.Language)
		}
	}
	if analytics.TotalAnalyses > 0 {
		analytics.AvgScore = sum / float64(analytics.TotalAnalyses)
	}
	return analytics, nil
}

func (r *InMemoryAnalysisRepository) Recent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.AnalysisSummary
	for i := len(r.reports) - 1; i >= 0 && len(result) < limit; i-- {
		report := r.reports[i]
		if report.UserID != userID {
			continue
		}
		result = append(result, &domain.AnalysisSummary{
			ID:         report.ID,
			Language:   report.Language,
			Repository: report.Repository,
			Score:      report.Score,
			CreatedAt:  report.CreatedAt,
		})
	}
	return result, nil
}

type InMemoryOAuthRepository struct {
	mu          sync.RWMutex
	connections map[string]*domain.OAuthConnection // keyed by userID + "/" + provider
}

func NewInMemoryOAuthRepository() *InMemoryOAuthRepository {
	return &InMemoryOAuthRepository{connections: make(map[string]*domain.OAuthConnection)}
}

func (r *InMemoryOAuthRepository) Upsert(ctx context.Context, connection *domain.OAuthConnection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if connection == nil {
		return errors.New("connection is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[connection.UserID+"/"+connection.Provider] = connection
	return nil
}

func (r *InMemoryOAuthRepository) ListForUser(ctx context.Context, userID string) ([]*domain.OAuthConnection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.OAuthConnection
	for _, connection := range r.connections {
		if connection.UserID == userID {
			result = append(result, connection)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryOAuthRepository) AccessToken(ctx context.Context, userID, provider string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	connection, ok := r.connections[userID+"/"+provider]
	if !ok {
		return "", ErrConnectionNotFound
	}
	return connection.AccessToken, nil
}
