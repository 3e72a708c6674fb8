package converter

import (
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

type AnalysisResponse struct {
	ID            uuid.UUID `json:"id"`
	Language      string    `json:"language"`
	Repository    string    `json:"repository,omitempty"`
	Suggestions   []string  `json:"suggestions"`
	Bugs          []string  `json:"bugs"`
	Optimizations []string  `json:"optimizations"`
	Documentation string    `json:"documentation"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

type AnalysisSummaryResponse struct {
	ID         uuid.UUID `json:"id"`
	Language   string    `json:"language"`
	Repository string    `json:"repository,omitempty"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnalyticsResponse struct {
	TotalAnalyses   int      `json:"total_analyses"`
	AvgScore        float64  `json:"avg_score"`
	HighRiskCount   int      `json:"high_risk_count"`
	RecentLanguages []string `json:"recent_languages"`
}

func ReportToApi(r *domain.AnalysisReport) *AnalysisResponse {
	return &AnalysisResponse{
		ID:            r.ID,
		Language:      r.Language,
		Repository:    r.Repository,
		Suggestions:   emptyIfNil(r.Suggestions),
		Bugs:          emptyIfNil(r.Bugs),
		Optimizations: emptyIfNil(r.Optimizations),
		Documentation: r.Documentation,
		Score:         r.Score,
		CreatedAt:     r.CreatedAt,
	}
}

func SummariesToApi(summaries []*domain.AnalysisSummary) []*AnalysisSummaryResponse {
	out := make([]*AnalysisSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &AnalysisSummaryResponse{
			ID:         s.ID,
			Language:   s.Language,
			Repository: s.Repository,
			Score:      s.Score,
			CreatedAt:  s.CreatedAt,
		})
	}
	return out
}

func AnalyticsToApi(a *domain.Analytics) *AnalyticsResponse {
	return &AnalyticsResponse{
		TotalAnalyses:   a.TotalAnalyses,
		AvgScore:        a.AvgScore,
		HighRiskCount:   a.HighRiskCount,
		RecentLanguages: emptyIfNil(a.RecentLanguages),
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
