package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Rule is a user-defined regex lint rule applied on top of the ML analysis.
type Rule struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Pattern   string
	Message   string
	Severity  Severity
	Enabled   bool
	CreatedAt time.Time
}

func NewRule(userID, name, pattern, message string, severity Severity) *Rule {
	return &Rule{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Pattern:   pattern,
		Message:   message,
		Severity:  severity,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
}

// Finding is one rule hit against submitted code.
type Finding struct {
	RuleName string
	Message  string
	Severity Severity
}

// String renders the finding the way it is appended to an analysis report.
func (f Finding) String() string {
	return "[" + string(f.Severity) + "] " + f.RuleName + ": " + f.Message
}

// Feedback records whether the user accepted an analysis result.
type Feedback struct {
	ID         uuid.UUID
	UserID     string
	AnalysisID uuid.UUID
	Accepted   bool
	Note       string
	CreatedAt  time.Time
}

func NewFeedback(userID string, analysisID uuid.UUID, accepted bool, note string) *Feedback {
	return &Feedback{
		ID:         uuid.New(),
		UserID:     userID,
		AnalysisID: analysisID,
		Accepted:   accepted,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
}
