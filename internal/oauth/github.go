package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codemindhq/codemind/internal/domain"
)

type GitHub struct {
	creds      Credentials
	httpClient *http.Client

	authorizeURL string
	tokenURL     string
	apiURL       string
}

func NewGitHub(creds Credentials) *GitHub {
	return &GitHub{
		creds:        creds,
		httpClient:   newHTTPClient(),
		authorizeURL: "https://github.com/login/oauth/authorize",
		tokenURL:     "https://github.com/login/oauth/access_token",
		apiURL:       "https://api.github.com",
	}
}

func (p *GitHub) Name() string     { return "github" }
func (p *GitHub) Configured() bool { return p.creds.ClientID != "" }

func (p *GitHub) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", p.creds.ClientID)
	params.Set("redirect_uri", p.creds.CallbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("scope", "repo read:user")
	return p.authorizeURL + "?" + params.Encode()
}

func (p *GitHub) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     p.creds.ClientID,
		"client_secret": p.creds.ClientSecret,
		"code":          code,
		"redirect_uri":  p.creds.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

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

func (p *GitHub) FetchIdentity(ctx context.Context, accessToken string) (*domain.ProviderIdentity, error) {
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
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode identity response: %v", ErrUpstream, err)
	}

	return &domain.ProviderIdentity{
		AccountID: strconv.FormatInt(user.ID, 10),
		Username:  user.Login,
	}, nil
}

func (p *GitHub) ListRepositories(ctx context.Context, accessToken string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/user/repos?per_page=20", nil)
	if err != nil {
		return nil, fmt.Errorf("build repos request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: repos endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var repos []struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("%w: decode repos response: %v", ErrUpstream, err)
	}

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.FullName)
	}
	return names, nil
}
