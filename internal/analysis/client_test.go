package analysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codemindhq/codemind/internal/analysis"
	"github.com/codemindhq/codemind/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "print(1)", req["code"])
		assert.Equal(t, "python", req["language"])

		json.NewEncoder(w).Encode(map[string]any{
			"suggestions":   []string{"use logging"},
			"bugs":          []string{},
			"optimizations": []string{"batch the writes"},
			"documentation": "A snippet that prints a number.",
			"score":         0.9,
		})
	}))
	defer srv.Close()

	client := analysis.NewClient(srv.URL, time.Second)
	result, err := client.Analyze(context.Background(), domain.AnalysisRequest{Code: "print(1)", Language: "python"})
	require.NoError(t, err)

	assert.Equal(t, []string{"use logging"}, result.Suggestions)
	assert.Equal(t, []string{"batch the writes"}, result.Optimizations)
	assert.Equal(t, "A snippet that prints a number.", result.Documentation)
	assert.InDelta(t, 0.9, result.Score, 1e-9)
}

func TestClient_AnalyzeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := analysis.NewClient(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), domain.AnalysisRequest{Code: "x", Language: "go"})
	assert.ErrorIs(t, err, analysis.ErrUnavailable)
}

func TestClient_AnalyzeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := analysis.NewClient(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), domain.AnalysisRequest{Code: "x", Language: "go"})
	assert.ErrorIs(t, err, analysis.ErrUnavailable)
}

func TestClient_AnalyzeBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := analysis.NewClient(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), domain.AnalysisRequest{Code: "x", Language: "go"})
	assert.ErrorIs(t, err, analysis.ErrUnavailable)
}
