package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/rules"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/codemindhq/codemind/lib/logger/sl"
	"github.com/google/uuid"
)

const (
	analysisCacheTTL    = 5 * time.Minute
	analysisCachePrefix = "analysis:"
	maxScorePenalty     = 0.4
	perFindingPenalty   = 0.05
)

// Analyzer is the upstream ML service.
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}

// AnalysisService runs the full analysis pipeline: cache lookup, the ML
// call, the user's lint rules pass, persistence and the cache write.
type AnalysisService struct {
	analyzer Analyzer
	rules    repository.RuleRepository
	reports  repository.AnalysisRepository
	cache    statestore.Store
	log      *slog.Logger
}

func NewAnalysisService(
	analyzer Analyzer,
	ruleRepo repository.RuleRepository,
	reports repository.AnalysisRepository,
	cache statestore.Store,
	log *slog.Logger,
) *AnalysisService {
	return &AnalysisService{
		analyzer: analyzer,
		rules:    ruleRepo,
		reports:  reports,
		cache:    cache,
		log:      log,
	}
}

// cachedReport is the wire form of a report in the cache. Cached hits are
// returned as-is, including the ID and timestamp of the run that produced
// them.
type cachedReport struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	Language      string    `json:"language"`
	Repository    string    `json:"repository"`
	Code          string    `json:"code"`
	Suggestions   []string  `json:"suggestions"`
	Bugs          []string  `json:"bugs"`
	Optimizations []string  `json:"optimizations"`
	Documentation string    `json:"documentation"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *AnalysisService) Analyze(ctx context.Context, caller string, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	const op = "service.analysis.Analyze"
	if req.Code == "" || req.Language == "" {
		return nil, fmt.Errorf("%s: %w: code and language are required", op, ErrInvalidInput)
	}

	key := cacheKey(req.Code, req.Language)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached cachedReport
		if uerr := json.Unmarshal([]byte(raw), &cached); uerr == nil {
			s.log.Debug("analysis cache hit", slog.String("key", key))
			return cached.toDomain(), nil
		} else {
			s.log.Warn("dropping unreadable cache entry", slog.String("key", key), sl.Err(uerr))
		}
	} else if err != statestore.ErrMiss {
		s.log.Warn("analysis cache read failed", sl.Err(err))
	}

	result, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ruleset, err := s.rules.ListForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	findings := rules.Apply(req.Code, ruleset)
	for _, f := range findings {
		result.Bugs = append(result.Bugs, f.String())
	}
	result.Score = penalize(result.Score, len(findings))

	report := &domain.AnalysisReport{
		ID:            uuid.New(),
		UserID:        caller,
		Language:      req.Language,
		Repository:    req.Repository,
		Code:          req.Code,
		Suggestions:   result.Suggestions,
		Bugs:          result.Bugs,
		Optimizations: result.Optimizations,
		Documentation: result.Documentation,
		Score:         result.Score,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if raw, err := json.Marshal(fromDomain(report)); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), analysisCacheTTL); err != nil {
			s.log.Warn("analysis cache write failed", sl.Err(err))
		}
	}
	return report, nil
}

func (s *AnalysisService) Analytics(ctx context.Context, caller string) (*domain.Analytics, error) {
	const op = "service.analysis.Analytics"
	out, err := s.reports.Analytics(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *AnalysisService) Recent(ctx context.Context, caller string, limit int) ([]*domain.AnalysisSummary, error) {
	const op = "service.analysis.Recent"
	out, err := s.reports.Recent(ctx, caller, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func cacheKey(code, language string) string {
	sum := sha256.Sum256([]byte(code + language))
	return analysisCachePrefix + hex.EncodeToString(sum[:])
}

// penalize lowers the ML score by 0.05 per finding, capped at 0.4 total,
// and never drops below zero.
func penalize(score float64, findings int) float64 {
	penalty := perFindingPenalty * float64(findings)
	if penalty > maxScorePenalty {
		penalty = maxScorePenalty
	}
	score -= penalty
	if score < 0 {
		return 0
	}
	return score
}

func (c cachedReport) toDomain() *domain.AnalysisReport {
	return &domain.AnalysisReport{
		ID:            c.ID,
		UserID:        c.UserID,
		Language:      c.Language,
		Repository:    c.Repository,
		Code:          c.Code,
		Suggestions:   c.Suggestions,
		Bugs:          c.Bugs,
		Optimizations: c.Optimizations,
		Documentation: c.Documentation,
		Score:         c.Score,
		CreatedAt:     c.CreatedAt,
	}
}

func fromDomain(r *domain.AnalysisReport) cachedReport {
	return cachedReport{
		ID:            r.ID,
		UserID:        r.UserID,
		Language:      r.Language,
		Repository:    r.Repository,
		Code:          r.Code,
		Suggestions:   r.Suggestions,
		Bugs:          r.Bugs,
		Optimizations: r.Optimizations,
		Documentation: r.Documentation,
		Score:         r.Score,
		CreatedAt:     r.CreatedAt,
	}
}
