package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the external admin authentication endpoint. The endpoint
// accepts {"password": "..."} and answers {"success": bool}; everything else
// about it is opaque to this service.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an auth client for the given endpoint URL. apiKey is sent
// as a bearer token when non-empty.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Success bool `json:"success"`
}

// Authenticate checks the password against the endpoint. Network and parse
// errors are returned so the caller can fail closed.
func (c *Client) Authenticate(ctx context.Context, password string) (bool, error) {
	body, err := json.Marshal(authRequest{Password: password})
	if err != nil {
		return false, fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("auth request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var result authResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode auth response: %w", err)
	}
	return result.Success, nil
}
