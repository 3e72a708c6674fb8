package converter

import (
	"time"

	"github.com/codemindhq/codemind/internal/domain"
)

// ConnectionResponse deliberately omits tokens.
type ConnectionResponse struct {
	Provider  string     `json:"provider"`
	Username  string     `json:"username"`
	Scopes    []string   `json:"scopes"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ConnectionToApi(c *domain.OAuthConnection) *ConnectionResponse {
	return &ConnectionResponse{
		Provider:  c.Provider,
		Username:  c.Username,
		Scopes:    emptyIfNil(c.Scopes),
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

func ConnectionsToApi(connections []*domain.OAuthConnection) []*ConnectionResponse {
	out := make([]*ConnectionResponse, 0, len(connections))
	for _, c := range connections {
		out = append(out, ConnectionToApi(c))
	}
	return out
}
