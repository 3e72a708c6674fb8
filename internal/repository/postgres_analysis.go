package repository

import (
	"context"
	"errors"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresAnalysisRepository struct {
	db *gorm.DB
}

func NewPostgresAnalysisRepository(db *gorm.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

func (r *PostgresAnalysisRepository) Save(ctx context.Context, report *domain.AnalysisReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if report == nil {
		return errors.New("report is nil")
	}

	var repo *string
	if report.Repository != "" {
		v := report.Repository
		repo = &v
	}

	return r.db.WithContext(ctx).Create(&model.AnalysisReport{
		ID:            report.ID,
		UserID:        report.UserID,
		Language:      report.Language,
		Repository:    repo,
		Code:          report.Code,
		Suggestions:   report.Suggestions,
		Bugs:          report.Bugs,
		Optimizations: report.Optimizations,
		Documentation: report.Documentation,
		Score:         report.Score,
		CreatedAt:     report.CreatedAt.UTC(),
	}).Error
}

func (r *PostgresAnalysisRepository) Analytics(ctx context.Context, userID string) (*domain.Analytics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var totals struct {
		TotalAnalyses int
		AvgScore      float64
		HighRiskCount int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)::int                                  AS total_analyses,
		       COALESCE(AVG(score), 0)::float                 AS avg_score,
		       COUNT(*) FILTER (WHERE score < 0.5)::int       AS high_risk_count
		FROM analysis_reports
		WHERE user_id = ?`, userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var languages []string
	err = r.db.WithContext(ctx).
		Model(&model.AnalysisReport{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Pluck("language", &languages).Error
	if err != nil {
		return nil, err
	}

	return &domain.Analytics{
		TotalAnalyses:   totals.TotalAnalyses,
		AvgScore:        totals.AvgScore,
		HighRiskCount:   totals.HighRiskCount,
		RecentLanguages: languages,
	}, nil
}

func (r *PostgresAnalysisRepository) Recent(ctx context.Context, userID string, limit int) ([]*domain.AnalysisSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type summaryRow struct {
		ID         uuid.UUID
		Language   string
		Repository *string
		Score      float64
		CreatedAt  time.Time
	}

	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&model.AnalysisReport{}).
		Select("id, language, repository, score, created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.AnalysisSummary, 0, len(rows))
	for _, row := range rows {
		repo := ""
		if row.Repository != nil {
			repo = *row.Repository
		}
		result = append(result, &domain.AnalysisSummary{
			ID:         row.ID,
			Language:   row.Language,
			Repository: repo,
			Score:      row.Score,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return result, nil
}
