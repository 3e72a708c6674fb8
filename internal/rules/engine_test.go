package rules_test

import (
	"testing"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(name, pattern string, severity domain.Severity, enabled bool) *domain.Rule {
	r := domain.NewRule("u1", name, pattern, "do not use "+name, severity)
	r.Enabled = enabled
	return r
}

func TestApply_MatchesOncePerRule(t *testing.T) {
	ruleset := []*domain.Rule{
		rule("no-eval", `\beval\(`, domain.SeverityCritical, true),
	}

	findings := rules.Apply("const x = eval(input); eval(other)", ruleset)

	require.Len(t, findings, 1, "a rule reports one finding no matter how often it matches")
	assert.Equal(t, "no-eval", findings[0].RuleName)
	assert.Equal(t, domain.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "[critical] no-eval: do not use no-eval", findings[0].String())
}

func TestApply_SkipsDisabledAndNonMatching(t *testing.T) {
	ruleset := []*domain.Rule{
		rule("no-eval", `\beval\(`, domain.SeverityCritical, false),
		rule("no-print", `\bprint\(`, domain.SeverityInfo, true),
		rule("no-goto", `\bgoto\b`, domain.SeverityWarning, true),
	}

	findings := rules.Apply("print(eval(1))", ruleset)

	require.Len(t, findings, 1)
	assert.Equal(t, "no-print", findings[0].RuleName)
}

func TestApply_MultilineMode(t *testing.T) {
	ruleset := []*domain.Rule{
		rule("no-todo-line", `^\s*// TODO`, domain.SeverityInfo, true),
	}

	code := "package main\n// TODO finish\nfunc main() {}\n"
	findings := rules.Apply(code, ruleset)

	require.Len(t, findings, 1, "patterns anchor per line, not against the whole snippet")
}

func TestApply_IgnoresBrokenPattern(t *testing.T) {
	ruleset := []*domain.Rule{
		rule("broken", `[unclosed`, domain.SeverityCritical, true),
		rule("no-eval", `\beval\(`, domain.SeverityWarning, true),
	}

	findings := rules.Apply("eval(1)", ruleset)

	require.Len(t, findings, 1, "a broken rule must not take down the pass")
	assert.Equal(t, "no-eval", findings[0].RuleName)
}

func TestApply_EmptyRuleset(t *testing.T) {
	assert.Empty(t, rules.Apply("anything", nil))
}
