package domain

import (
	"time"

	"github.com/google/uuid"
)

// OAuthConnection is a linked source-control account for one user.
// At most one connection exists per (user, provider) pair.
type OAuthConnection struct {
	ID           uuid.UUID
	UserID       string
	Provider     string
	AccountID    string
	Username     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Scopes       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OAuthToken is the payload of a completed authorization-code exchange.
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Scope        string
}

// ProviderIdentity is the account identity reported by a provider.
type ProviderIdentity struct {
	AccountID string
	Username  string
}
