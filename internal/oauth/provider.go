// Package oauth implements authorization-code flows against external
// source-control providers. Each provider is one variant behind the
// Provider interface, selected through a Registry rather than string
// branching at call sites.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrNotConfigured       = errors.New("oauth provider not configured")

	// ErrUpstream marks any provider-side failure; callers surface it as
	// service-unavailable and never retry automatically.
	ErrUpstream = errors.New("oauth provider unavailable")
)

const requestTimeout = 20 * time.Second

// Provider is the capability surface each external provider implements.
type Provider interface {
	Name() string
	Configured() bool
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error)
	FetchIdentity(ctx context.Context, accessToken string) (*domain.ProviderIdentity, error)
	ListRepositories(ctx context.Context, accessToken string) ([]string, error)
}

// Credentials is the per-provider OAuth app configuration.
type Credentials struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Registry is the provider lookup table built once at startup.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	table := make(map[string]Provider, len(providers))
	for _, p := range providers {
		table[p.Name()] = p
	}
	return &Registry{providers: table}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
	return p, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// tokenResponse is the common shape of the providers' token endpoints.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

func (t tokenResponse) toDomain() *domain.OAuthToken {
	return &domain.OAuthToken{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		Scope:        t.Scope,
	}
}
