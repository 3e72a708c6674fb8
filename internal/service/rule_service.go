package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/google/uuid"
)

// RuleService manages per-user lint rules and feedback on analysis results.
type RuleService struct {
	rules repository.RuleRepository
}

func NewRuleService(rules repository.RuleRepository) *RuleService {
	return &RuleService{rules: rules}
}

func (s *RuleService) CreateRule(ctx context.Context, caller, name, pattern, message string, severity domain.Severity) (*domain.Rule, error) {
	const op = "service.rule.CreateRule"
	name = strings.TrimSpace(name)
	if name == "" || pattern == "" {
		return nil, fmt.Errorf("%s: %w: name and pattern are required", op, ErrInvalidInput)
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidSeverity, severity)
	}
	// Reject patterns the analysis pass would have to skip anyway.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidPattern, err)
	}
	rule := domain.NewRule(caller, name, pattern, message, severity)
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rule, nil
}

func (s *RuleService) ListRules(ctx context.Context, caller string) ([]*domain.Rule, error) {
	const op = "service.rule.ListRules"
	out, err := s.rules.ListForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *RuleService) SaveFeedback(ctx context.Context, caller string, analysisID uuid.UUID, accepted bool, note string) error {
	const op = "service.rule.SaveFeedback"
	feedback := domain.NewFeedback(caller, analysisID, accepted, strings.TrimSpace(note))
	if err := s.rules.SaveFeedback(ctx, feedback); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
