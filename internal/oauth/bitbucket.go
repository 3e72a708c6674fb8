package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/codemindhq/codemind/internal/domain"
)

type Bitbucket struct {
	creds      Credentials
	httpClient *http.Client

	authorizeURL string
	tokenURL     string
	apiURL       string
}

func NewBitbucket(creds Credentials) *Bitbucket {
	return &Bitbucket{
		creds:        creds,
		httpClient:   newHTTPClient(),
		authorizeURL: "https://bitbucket.org/site/oauth2/authorize",
		tokenURL:     "https://bitbucket.org/site/oauth2/access_token",
		apiURL:       "https://api.bitbucket.org/2.0",
	}
}

func (p *Bitbucket) Name() string     { return "bitbucket" }
func (p *Bitbucket) Configured() bool { return p.creds.ClientID != "" }

func (p *Bitbucket) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", p.creds.ClientID)
	params.Set("redirect_uri", p.creds.CallbackURL)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("scope", "repository account")
	return p.authorizeURL + "?" + params.Encode()
}

// ExchangeCode authenticates with HTTP Basic client credentials, which is
// the only exchange style Bitbucket accepts.
func (p *Bitbucket) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.creds.CallbackURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.creds.ClientID, p.creds.ClientSecret)

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

func (p *Bitbucket) FetchIdentity(ctx context.Context, accessToken string) (*domain.ProviderIdentity, error) {
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
		AccountID string `json:"account_id"`
		Username  string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode identity response: %v", ErrUpstream, err)
	}

	return &domain.ProviderIdentity{
		AccountID: user.AccountID,
		Username:  user.Username,
	}, nil
}

func (p *Bitbucket) ListRepositories(ctx context.Context, accessToken string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/repositories?role=member", nil)
	if err != nil {
		return nil, fmt.Errorf("build repos request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: repos endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var page struct {
		Values []struct {
			FullName string `json:"full_name"`
		} `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode repos response: %v", ErrUpstream, err)
	}

	names := make([]string, 0, len(page.Values))
	for _, repo := range page.Values {
		names = append(names, repo.FullName)
	}
	return names, nil
}
