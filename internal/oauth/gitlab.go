package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codemindhq/codemind/internal/domain"
)

type GitLab struct {
	creds      Credentials
	httpClient *http.Client

	authorizeURL string
	tokenURL     string
	apiURL       string
}

func NewGitLab(creds Credentials) *GitLab {
	return &GitLab{
		creds:        creds,
		httpClient:   newHTTPClient(),
		authorizeURL: "https://gitlab.com/oauth/authorize",
		tokenURL:     "https://gitlab.com/oauth/token",
		apiURL:       "https://gitlab.com/api/v4",
	}
}

func (p *GitLab) Name() string     { return "gitlab" }
func (p *GitLab) Configured() bool { return p.creds.ClientID != "" }

func (p *GitLab) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", p.creds.ClientID)
	params.Set("redirect_uri", p.creds.CallbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("scope", "read_user read_api")
	return p.authorizeURL + "?" + params.Encode()
}

func (p *GitLab) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	form := url.Values{}
	form.Set("client_id", p.creds.ClientID)
	form.Set("client_secret", p.creds.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", p.creds.CallbackURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", ErrUpstream, err)
	}
	return token.toDomain(), nil
}

func (p *GitLab) FetchIdentity(ctx context.Context, accessToken string) (*domain.ProviderIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: identity endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var user struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode identity response: %v", ErrUpstream, err)
	}

	return &domain.ProviderIdentity{
		AccountID: strconv.FormatInt(user.ID, 10),
		Username:  user.Username,
	}, nil
}

func (p *GitLab) ListRepositories(ctx context.Context, accessToken string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/projects?membership=true&per_page=20", nil)
	if err != nil {
		return nil, fmt.Errorf("build repos request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: repos endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var projects []struct {
		PathWithNamespace string `json:"path_with_namespace"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("%w: decode repos response: %v", ErrUpstream, err)
	}

	names := make([]string, 0, len(projects))
	for _, project := range projects {
		names = append(names, project.PathWithNamespace)
	}
	return names, nil
}
