package repository

import (
	"context"
	"errors"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresRuleRepository struct {
	db *gorm.DB
}

func NewPostgresRuleRepository(db *gorm.DB) *PostgresRuleRepository {
	return &PostgresRuleRepository{db: db}
}

func (r *PostgresRuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rule == nil {
		return errors.New("rule is nil")
	}

	return r.db.WithContext(ctx).Create(toModelRule(rule)).Error
}

func (r *PostgresRuleRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rules []model.Rule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Rule, 0, len(rules))
	for i := range rules {
		result = append(result, toDomainRule(&rules[i]))
	}
	return result, nil
}

func (r *PostgresRuleRepository) SaveFeedback(ctx context.Context, feedback *domain.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if feedback == nil {
		return errors.New("feedback is nil")
	}

	var note *string
	if feedback.Note != "" {
		v := feedback.Note
		note = &v
	}

	return r.db.WithContext(ctx).Create(&model.FeedbackEvent{
		ID:         feedback.ID,
		UserID:     feedback.UserID,
		AnalysisID: feedback.AnalysisID,
		Accepted:   feedback.Accepted,
		Note:       note,
		CreatedAt:  feedback.CreatedAt.UTC(),
	}).Error
}

func toModelRule(rule *domain.Rule) *model.Rule {
	return &model.Rule{
		ID:        rule.ID,
		UserID:    rule.UserID,
		Name:      rule.Name,
		Pattern:   rule.Pattern,
		Message:   rule.Message,
		Severity:  string(rule.Severity),
		Enabled:   rule.Enabled,
		CreatedAt: rule.CreatedAt.UTC(),
	}
}

func toDomainRule(rule *model.Rule) *domain.Rule {
	return &domain.Rule{
		ID:        rule.ID,
		UserID:    rule.UserID,
		Name:      rule.Name,
		Pattern:   rule.Pattern,
		Message:   rule.Message,
		Severity:  domain.Severity(rule.Severity),
		Enabled:   rule.Enabled,
		CreatedAt: rule.CreatedAt.UTC(),
	}
}
