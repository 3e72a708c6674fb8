package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	CallbackURL:  "http://localhost:8080/oauth/x/callback",
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry(NewGitHub(testCreds), NewGitLab(testCreds), NewBitbucket(testCreds))

	for _, name := range []string{"github", "gitlab", "bitbucket"} {
		p, err := registry.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}

	_, err := registry.Get("sourceforge")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestAuthorizeURL_CarriesStateAndScope(t *testing.T) {
	tests := []struct {
		provider Provider
		scope    string
	}{
		{NewGitHub(testCreds), "repo read:user"},
		{NewGitLab(testCreds), "read_user read_api"},
		{NewBitbucket(testCreds), "repository account"},
	}
	for _, tt := range tests {
		t.Run(tt.provider.Name(), func(t *testing.T) {
			u, err := url.Parse(tt.provider.AuthorizeURL("state-xyz"))
			require.NoError(t, err)
			q := u.Query()
			assert.Equal(t, "client-id", q.Get("client_id"))
			assert.Equal(t, "state-xyz", q.Get("state"))
			assert.Equal(t, "code", q.Get("response_type"))
			assert.Equal(t, tt.scope, q.Get("scope"))
			assert.Equal(t, testCreds.CallbackURL, q.Get("redirect_uri"))
		})
	}
}

func TestGitHub_ExchangeCodeSpeaksJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-id", body["client_id"])
		assert.Equal(t, "client-secret", body["client_secret"])
		assert.Equal(t, "the-code", body["code"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "gh-token",
			"scope":        "repo read:user",
		})
	}))
	defer srv.Close()

	p := NewGitHub(testCreds)
	p.tokenURL = srv.URL

	token, err := p.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "gh-token", token.AccessToken)
	assert.Equal(t, "repo read:user", token.Scope)
}

func TestGitLab_ExchangeCodeSpeaksForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "gl-token",
			"refresh_token": "gl-refresh",
			"expires_in":    7200,
		})
	}))
	defer srv.Close()

	p := NewGitLab(testCreds)
	p.tokenURL = srv.URL

	token, err := p.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "gl-token", token.AccessToken)
	assert.Equal(t, "gl-refresh", token.RefreshToken)
	assert.Equal(t, 7200, token.ExpiresIn)
}

func TestBitbucket_ExchangeCodeUsesBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "token endpoint expects client credentials via basic auth")
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))

		json.NewEncoder(w).Encode(map[string]any{"access_token": "bb-token"})
	}))
	defer srv.Close()

	p := NewBitbucket(testCreds)
	p.tokenURL = srv.URL

	token, err := p.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "bb-token", token.AccessToken)
}

func TestGitHub_ListRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		json.NewEncoder(w).Encode([]map[string]string{
			{"full_name": "org/api"},
			{"full_name": "org/frontend"},
		})
	}))
	defer srv.Close()

	p := NewGitHub(testCreds)
	p.apiURL = srv.URL

	repos, err := p.ListRepositories(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"org/api", "org/frontend"}, repos)
}

func TestGitLab_ListRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("membership"))
		assert.Equal(t, "gl-token", r.Header.Get("PRIVATE-TOKEN"))

		json.NewEncoder(w).Encode([]map[string]string{
			{"path_with_namespace": "group/service"},
		})
	}))
	defer srv.Close()

	p := NewGitLab(testCreds)
	p.apiURL = srv.URL

	repos, err := p.ListRepositories(context.Background(), "gl-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"group/service"}, repos)
}

func TestBitbucket_ListRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repositories", r.URL.Path)
		assert.Equal(t, "member", r.URL.Query().Get("role"))
		assert.Equal(t, "Bearer bb-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"values": []map[string]string{
				{"full_name": "team/billing"},
			},
		})
	}))
	defer srv.Close()

	p := NewBitbucket(testCreds)
	p.apiURL = srv.URL

	repos, err := p.ListRepositories(context.Background(), "bb-token")
	require.NoError(t, err)
	assert.Equal(t, []string{"team/billing"}, repos)
}

func TestProvider_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewGitHub(testCreds)
	p.tokenURL = srv.URL
	p.apiURL = srv.URL

	_, err := p.ExchangeCode(context.Background(), "code")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = p.ListRepositories(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUpstream)
}
