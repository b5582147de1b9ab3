package timesfm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quantframe/forecast-api-go/internal/config"
)

// Client is the low-level HTTP client for the model runner sidecar.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
}

// NewClient creates a new model runner client instance.
func NewClient(cfg *config.ForecasterConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(cfg.ServiceURL, "/"),
	}
}

// HealthCheck queries the runner's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var response HealthResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/health", nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Forecast runs one inference call. Outputs are index-aligned with
// req.Inputs; the runner computes a single horizon for the whole batch.
func (c *Client) Forecast(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error) {
	var response ForecastResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/forecast", req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// makeRequest is a helper method to make HTTP requests to the model runner
func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return fmt.Errorf("model runner error (%d): %s", resp.StatusCode, errorResp.Error)
		}
		return fmt.Errorf("model runner error (%d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// Close closes the HTTP client (if needed for cleanup).
func (c *Client) Close() error {
	return nil
}

// BaseURL returns the base URL of the model runner.
func (c *Client) BaseURL() string {
	return c.baseURL
}
