// Package rules applies user-defined regex lint rules to submitted code.
package rules

import (
	"regexp"

	"github.com/codemindhq/codemind/internal/domain"
)

// Apply evaluates every enabled rule against the code and returns one
// finding per matching rule. Patterns are evaluated in multiline mode so
// ^ and $ anchor to line boundaries. A rule whose pattern does not
// compile is skipped; a stored bad pattern must not fail the whole
// analysis.
func Apply(code string, ruleset []*domain.Rule) []domain.Finding {
	var findings []domain.Finding
	for _, rule := range ruleset {
		if rule == nil || !rule.Enabled {
			continue
		}
		re, err := regexp.Compile("(?m)" + rule.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(code) {
			findings = append(findings, domain.Finding{
				RuleName: rule.Name,
				Message:  rule.Message,
				Severity: rule.Severity,
			})
		}
	}
	return findings
}
