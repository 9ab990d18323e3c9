package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production Dome9 API endpoint
const DefaultBaseURL = "https://api.dome9.com"

// Client is the Dome9 API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	apiSecret  string
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (default: https://api.dome9.com)
	APIKey     string        // API key ID, sent as the basic auth username
	APISecret  string        // API key secret, sent as the basic auth password
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new Dome9 API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
	}
}

// doRequest performs an HTTP request and returns the response status code.
// Any status of 400 or above is returned as *APIError; a request that never
// produced a response returns status 0 and the transport error.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		// Best effort; the raw body is kept either way.
		_ = json.Unmarshal(respBody, apiErr)
		return resp.StatusCode, apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// GoogleCloudAccounts returns the Google Cloud account service
func (c *Client) GoogleCloudAccounts() *GoogleCloudAccountService {
	return &GoogleCloudAccountService{client: c}
}
