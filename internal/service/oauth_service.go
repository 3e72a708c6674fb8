package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/oauth"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/google/uuid"
)

const (
	oauthStateTTL    = 10 * time.Minute
	oauthStatePrefix = "oauth:state:"
	oauthStateBytes  = 24
)

// OAuthService drives the authorization-code flow against the provider
// registry and keeps the resulting connections.
type OAuthService struct {
	registry    *oauth.Registry
	connections repository.OAuthRepository
	states      statestore.Store
	successURL  string
}

func NewOAuthService(
	registry *oauth.Registry,
	connections repository.OAuthRepository,
	states statestore.Store,
	successURL string,
) *OAuthService {
	return &OAuthService{
		registry:    registry,
		connections: connections,
		states:      states,
		successURL:  successURL,
	}
}

type statePayload struct {
	UserID   string `json:"user_id"`
	Provider string `json:"provider"`
}

// Start issues the provider authorize URL for the caller. The generated
// state is stored server-side so the callback can tie the exchange back to
// the user who initiated it.
func (s *OAuthService) Start(ctx context.Context, caller, provider string) (string, error) {
	const op = "service.oauth.Start"
	p, err := s.registry.Get(provider)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !p.Configured() {
		return "", fmt.Errorf("%s: %w", op, oauth.ErrNotConfigured)
	}
	state, err := newState()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	raw, err := json.Marshal(statePayload{UserID: caller, Provider: p.Name()})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.states.Set(ctx, oauthStatePrefix+state, string(raw), oauthStateTTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return p.AuthorizeURL(state), nil
}

// Callback completes the flow: it consumes the state exactly once,
// exchanges the code, resolves the provider identity and upserts the
// connection. It returns the frontend URL to redirect the browser to.
func (s *OAuthService) Callback(ctx context.Context, provider, code, state string) (string, error) {
	const op = "service.oauth.Callback"
	if code == "" || state == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidState)
	}
	p, err := s.registry.Get(provider)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	payload, err := s.popState(ctx, state)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if payload.Provider != p.Name() {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidState)
	}

	token, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%s: %w", op, ErrExchangeFailed)
	}
	identity, err := p.FetchIdentity(ctx, token.AccessToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	connection := &domain.OAuthConnection{
		ID:           uuid.New(),
		UserID:       payload.UserID,
		Provider:     p.Name(),
		AccountID:    identity.AccountID,
		Username:     identity.Username,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scopes:       strings.Fields(token.Scope),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if token.ExpiresIn > 0 {
		expiresAt := now.Add(time.Duration(token.ExpiresIn) * time.Second)
		connection.ExpiresAt = &expiresAt
	}
	if err := s.connections.Upsert(ctx, connection); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.successURL + "?connected=" + url.QueryEscape(p.Name()), nil
}

func (s *OAuthService) Connections(ctx context.Context, caller string) ([]*domain.OAuthConnection, error) {
	const op = "service.oauth.Connections"
	out, err := s.connections.ListForUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *OAuthService) ListRepositories(ctx context.Context, caller, provider string) ([]string, error) {
	const op = "service.oauth.ListRepositories"
	p, err := s.registry.Get(provider)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.connections.AccessToken(ctx, caller, p.Name())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	repos, err := p.ListRepositories(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return repos, nil
}

// popState consumes a pending state exactly once. A second callback with
// the same state misses the store and is rejected.
func (s *OAuthService) popState(ctx context.Context, state string) (*statePayload, error) {
	key := oauthStatePrefix + state
	raw, err := s.states.Get(ctx, key)
	if err != nil {
		if err == statestore.ErrMiss {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	if err := s.states.Del(ctx, key); err != nil {
		return nil, err
	}
	var payload statePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrInvalidState
	}
	return &payload, nil
}

func newState() (string, error) {
	buf := make([]byte, oauthStateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
