package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRequest is a code snippet submitted for review.
type AnalysisRequest struct {
	Code       string
	Language   string
	Repository string
}

// AnalysisResult is what the ML service returns for a snippet.
type AnalysisResult struct {
	Suggestions   []string
	Bugs          []string
	Optimizations []string
	Documentation string
	Score         float64
}

// AnalysisReport is a persisted analysis outcome for one user.
type AnalysisReport struct {
	ID            uuid.UUID
	UserID        string
	Language      string
	Repository    string
	Code          string
	Suggestions   []string
	Bugs          []string
	Optimizations []string
	Documentation string
	Score         float64
	CreatedAt     time.Time
}

// AnalysisSummary is the list-view projection of a report.
type AnalysisSummary struct {
	ID         uuid.UUID
	Language   string
	Repository string
	Score      float64
	CreatedAt  time.Time
}

// Analytics aggregates a user's analysis history.
type Analytics struct {
	TotalAnalyses   int
	AvgScore        float64
	HighRiskCount   int
	RecentLanguages []string
}
