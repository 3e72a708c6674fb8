package converter

import (
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/google/uuid"
)

type RuleResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Pattern   string    `json:"pattern"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func RuleToApi(r *domain.Rule) *RuleResponse {
	return &RuleResponse{
		ID:        r.ID,
		Name:      r.Name,
		Pattern:   r.Pattern,
		Message:   r.Message,
		Severity:  string(r.Severity),
		Enabled:   r.Enabled,
		CreatedAt: r.CreatedAt,
	}
}

func RulesToApi(rules []*domain.Rule) []*RuleResponse {
	out := make([]*RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleToApi(r))
	}
	return out
}
