package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/codemindhq/codemind/internal/oauth"
	"github.com/codemindhq/codemind/internal/repository"
	"github.com/codemindhq/codemind/internal/service"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successURL = "http://localhost:3000/settings/integrations"

type fakeProvider struct {
	name       string
	configured bool
	token      domain.OAuthToken
	identity   domain.ProviderIdentity
	repos      []string

	exchangedCode string
	listedToken   string
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Configured() bool { return p.configured }

func (p *fakeProvider) AuthorizeURL(state string) string {
	return "https://" + p.name + ".example/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	p.exchangedCode = code
	token := p.token
	return &token, nil
}

func (p *fakeProvider) FetchIdentity(ctx context.Context, accessToken string) (*domain.ProviderIdentity, error) {
	identity := p.identity
	return &identity, nil
}

func (p *fakeProvider) ListRepositories(ctx context.Context, accessToken string) ([]string, error) {
	p.listedToken = accessToken
	return p.repos, nil
}

func newOAuth(t *testing.T, providers ...oauth.Provider) (*service.OAuthService, *repository.InMemoryOAuthRepository, statestore.Store) {
	t.Helper()
	connections := repository.NewInMemoryOAuthRepository()
	states := statestore.NewMemory()
	svc := service.NewOAuthService(oauth.NewRegistry(providers...), connections, states, successURL)
	return svc, connections, states
}

func stateFromURL(t *testing.T, authorizeURL string) string {
	t.Helper()
	u, err := url.Parse(authorizeURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestOAuthStart_IssuesStatefulAuthorizeURL(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{name: "github", configured: true}
	svc, _, states := newOAuth(t, provider)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(authorizeURL, "https://github.example/authorize?state="))

	state := stateFromURL(t, authorizeURL)
	raw, err := states.Get(ctx, "oauth:state:"+state)
	require.NoError(t, err)
	assert.Contains(t, raw, `"user_id":"alice"`)
	assert.Contains(t, raw, `"provider":"github"`)
}

func TestOAuthStart_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOAuth(t, &fakeProvider{name: "github", configured: false})

	_, err := svc.Start(ctx, "alice", "github")
	assert.ErrorIs(t, err, oauth.ErrNotConfigured)

	_, err = svc.Start(ctx, "alice", "sourceforge")
	assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)
}

func TestOAuthCallback_CompletesFlow(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       "github",
		configured: true,
		token:      domain.OAuthToken{AccessToken: "tok-123", RefreshToken: "ref-456", ExpiresIn: 3600, Scope: "repo read:user"},
		identity:   domain.ProviderIdentity{AccountID: "42", Username: "alice-gh"},
	}
	svc, connections, _ := newOAuth(t, provider)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)
	state := stateFromURL(t, authorizeURL)

	redirect, err := svc.Callback(ctx, "github", "the-code", state)
	require.NoError(t, err)
	assert.Equal(t, successURL+"?connected=github", redirect)
	assert.Equal(t, "the-code", provider.exchangedCode)

	list, err := connections.ListForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice-gh", list[0].Username)
	assert.Equal(t, "42", list[0].AccountID)
	assert.Equal(t, []string{"repo", "read:user"}, list[0].Scopes)
	require.NotNil(t, list[0].ExpiresAt)

	token, err := connections.AccessToken(ctx, "alice", "github")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestOAuthCallback_StateIsSingleUse(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       "github",
		configured: true,
		token:      domain.OAuthToken{AccessToken: "tok"},
	}
	svc, _, _ := newOAuth(t, provider)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)
	state := stateFromURL(t, authorizeURL)

	_, err = svc.Callback(ctx, "github", "code", state)
	require.NoError(t, err)

	_, err = svc.Callback(ctx, "github", "code", state)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestOAuthCallback_RejectsProviderMismatch(t *testing.T) {
	ctx := context.Background()
	github := &fakeProvider{name: "github", configured: true, token: domain.OAuthToken{AccessToken: "tok"}}
	gitlab := &fakeProvider{name: "gitlab", configured: true, token: domain.OAuthToken{AccessToken: "tok"}}
	svc, _, _ := newOAuth(t, github, gitlab)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)
	state := stateFromURL(t, authorizeURL)

	// A state minted for github cannot finish a gitlab exchange.
	_, err = svc.Callback(ctx, "gitlab", "code", state)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestOAuthCallback_RejectsEmptyToken(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{name: "github", configured: true}
	svc, _, _ := newOAuth(t, provider)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)

	_, err = svc.Callback(ctx, "github", "code", stateFromURL(t, authorizeURL))
	assert.ErrorIs(t, err, service.ErrExchangeFailed)
}

func TestOAuthCallback_UnknownStateRejected(t *testing.T) {
	svc, _, _ := newOAuth(t, &fakeProvider{name: "github", configured: true})
	_, err := svc.Callback(context.Background(), "github", "code", "never-issued")
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestListRepositories_UsesStoredToken(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{
		name:       "github",
		configured: true,
		token:      domain.OAuthToken{AccessToken: "tok-777"},
		repos:      []string{"org/api", "org/frontend"},
	}
	svc, _, _ := newOAuth(t, provider)

	_, err := svc.ListRepositories(ctx, "alice", "github")
	assert.ErrorIs(t, err, repository.ErrConnectionNotFound)

	authorizeURL, err := svc.Start(ctx, "alice", "github")
	require.NoError(t, err)
	_, err = svc.Callback(ctx, "github", "code", stateFromURL(t, authorizeURL))
	require.NoError(t, err)

	repos, err := svc.ListRepositories(ctx, "alice", "github")
	require.NoError(t, err)
	assert.Equal(t, []string{"org/api", "org/frontend"}, repos)
	assert.Equal(t, "tok-777", provider.listedToken)
}
