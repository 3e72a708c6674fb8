package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/codemindhq/codemind/internal/analysis"
	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	calls  int
	result domain.AnalysisResult
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := s.result
	return &out, nil
}

func newAnalysis(t *testing.T, analyzer *stubAnalyzer) (*service.AnalysisService, *repository.InMemoryRuleRepository, *repository.InMemoryAnalysisRepository) {
	t.Helper()
	ruleRepo := repository.NewInMemoryRuleRepository()
	reportRepo := repository.NewInMemoryAnalysisRepository()
	svc := service.NewAnalysisService(analyzer, ruleRepo, reportRepo, statestore.NewMemory(), slog.Default())
	return svc, ruleRepo, reportRepo
}

func TestAnalyze_AppliesRulesAndPenalty(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{result: domain.AnalysisResult{
		Suggestions: []string{"extract a helper"},
		Bugs:        []string{"possible nil deref"},
		Score:       0.9,
	}}
	svc, ruleRepo, _ := newAnalysis(t, analyzer)

	rule := domain.NewRule("alice", "no-eval", `\beval\(`, "eval is unsafe", domain.SeverityCritical)
	require.NoError(t, ruleRepo.Create(ctx, rule))

	report, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "eval(x)", Language: "javascript"})
	require.NoError(t, err)

	require.Len(t, report.Bugs, 2)
	assert.Equal(t, "possible nil deref", report.Bugs[0])
	assert.Equal(t, "[critical] no-eval: eval is unsafe", report.Bugs[1])
	assert.InDelta(t, 0.85, report.Score, 1e-9)
	assert.Equal(t, "alice", report.UserID)
}

func TestAnalyze_PenaltyIsCapped(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{result: domain.AnalysisResult{Score: 0.5}}
	svc, ruleRepo, _ := newAnalysis(t, analyzer)

	// Ten matching rules would subtract 0.5 uncapped.
	for i := 0; i < 10; i++ {
		rule := domain.NewRule("alice", "always", `x`, "m", domain.SeverityInfo)
		require.NoError(t, ruleRepo.Create(ctx, rule))
	}

	report, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "x", Language: "go"})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, report.Score, 1e-9)
}

func TestAnalyze_ScoreNeverNegative(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{result: domain.AnalysisResult{Score: 0.02}}
	svc, ruleRepo, _ := newAnalysis(t, analyzer)

	rule := domain.NewRule("alice", "always", `x`, "m", domain.SeverityInfo)
	require.NoError(t, ruleRepo.Create(ctx, rule))

	report, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "x", Language: "go"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Score)
}

func TestAnalyze_CacheShortCircuitsSecondRun(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{result: domain.AnalysisResult{Score: 0.7}}
	svc, _, reportRepo := newAnalysis(t, analyzer)

	first, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "x", Language: "go"})
	require.NoError(t, err)

	second, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "x", Language: "go"})
	require.NoError(t, err)

	assert.Equal(t, 1, analyzer.calls, "second run must come from the cache")
	assert.Equal(t, first.ID, second.ID)

	analytics, err := reportRepo.Analytics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.TotalAnalyses, "cached runs are not persisted twice")

	// A different snippet misses the cache.
	_, err = svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "y", Language: "go"})
	require.NoError(t, err)
	assert.Equal(t, 2, analyzer.calls)
}

func TestAnalyze_UpstreamFailurePassesThrough(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{err: analysis.ErrUnavailable}
	svc, _, reportRepo := newAnalysis(t, analyzer)

	_, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "x", Language: "go"})
	assert.ErrorIs(t, err, analysis.ErrUnavailable)

	analytics, err := reportRepo.Analytics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, analytics.TotalAnalyses, "failed runs leave no report behind")
}

func TestAnalyze_RequiresCodeAndLanguage(t *testing.T) {
	svc, _, _ := newAnalysis(t, &stubAnalyzer{})
	_, err := svc.Analyze(context.Background(), "alice", domain.AnalysisRequest{Code: "", Language: "go"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestAnalytics_AggregatesReports(t *testing.T) {
	ctx := context.Background()
	analyzer := &stubAnalyzer{result: domain.AnalysisResult{Score: 0.4}}
	svc, _, _ := newAnalysis(t, analyzer)

	_, err := svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "a", Language: "go"})
	require.NoError(t, err)
	analyzer.result.Score = 0.8
	_, err = svc.Analyze(ctx, "alice", domain.AnalysisRequest{Code: "b", Language: "python"})
	require.NoError(t, err)

	analytics, err := svc.Analytics(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalAnalyses)
	assert.InDelta(t, 0.6, analytics.AvgScore, 1e-9)
	assert.Equal(t, 1, analytics.HighRiskCount)
	assert.Contains(t, analytics.RecentLanguages, "go")
	assert.Contains(t, analytics.RecentLanguages, "python")

	recent, err := svc.Recent(ctx, "alice", 12)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
