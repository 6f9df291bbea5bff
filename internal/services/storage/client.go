package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client uploads files to the platform's object storage over its HTTP API and
// returns the public URL. No image processing happens here.
type Client struct {
	baseURL    string
	bucket     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a storage client. baseURL is the storage API root,
// bucket the target bucket name.
func NewClient(baseURL, bucket, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		bucket:  bucket,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Upload stores the object under name and returns its public URL.
func (c *Client) Upload(ctx context.Context, name string, contentType string, data io.Reader) (string, error) {
	body, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("read upload body: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/object/%s/%s", c.baseURL, url.PathEscape(c.bucket), name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	return c.PublicURL(name), nil
}

// PublicURL returns the public URL for an object name without uploading.
func (c *Client) PublicURL(name string) string {
	return c.baseURL + path.Join("/object/public", c.bucket, name)
}
