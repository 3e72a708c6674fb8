// Package analysis calls the external ML analysis service over HTTP.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
)

// ErrUnavailable marks any transport or upstream failure; callers map it
// to a service-unavailable response and never retry automatically.
var ErrUnavailable = errors.New("analysis service unavailable")

const defaultTimeout = 60 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	Repository string `json:"repository,omitempty"`
}

type analyzeResponse struct {
	Suggestions   []string `json:"suggestions"`
	Bugs          []string `json:"bugs"`
	Optimizations []string `json:"optimizations"`
	Documentation string   `json:"documentation"`
	Score         float64  `json:"score"`
}

// Analyze submits the snippet to the model-serving process.
func (c *Client) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{
		Code:       req.Code,
		Language:   req.Language,
		Repository: req.Repository,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, payload)
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	return &domain.AnalysisResult{
		Suggestions:   out.Suggestions,
		Bugs:          out.Bugs,
		Optimizations: out.Optimizations,
		Documentation: out.Documentation,
		Score:         out.Score,
	}, nil
}
