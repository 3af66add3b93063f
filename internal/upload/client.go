package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/gymtrack/internal/ingest"
)

// Import endpoints on the GymTrack server.
const (
	PathAlpha  = "/api/v1/import/alpha"
	PathBackup = "/api/v1/import/backup"
)

// Client sends exports to the GymTrack server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the GymTrack server. apiKey may be
// empty when the server runs without auth.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendAlpha POSTs an Alpha Progression CSV export and returns the server's
// import summary.
func (c *Client) SendAlpha(ctx context.Context, data []byte) (*ingest.Result, error) {
	body, err := c.post(ctx, PathAlpha, "text/csv", data)
	if err != nil {
		return nil, err
	}
	var result ingest.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding import result: %w", err)
	}
	return &result, nil
}

// SendBackup POSTs a backup document and returns the per-dataset counts.
func (c *Client) SendBackup(ctx context.Context, data []byte) (map[string]int, error) {
	body, err := c.post(ctx, PathBackup, "application/json", data)
	if err != nil {
		return nil, err
	}
	var counts map[string]int
	if err := json.Unmarshal(body, &counts); err != nil {
		return nil, fmt.Errorf("decoding restore result: %w", err)
	}
	return counts, nil
}

// post retries up to 3 times with exponential backoff. Client errors (4xx)
// are returned at once since resending the same body cannot help.
func (c *Client) post(ctx context.Context, path, contentType string, data []byte) ([]byte, error) {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, fmt.Errorf("import rejected (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
		}
		lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
