package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lexday/lexday-api/internal/domain"
)

const snapshotPath = "/snapshot"

// HTTPClient talks to the sync remote over HTTP. It satisfies the sync
// service's RemoteClient interface.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a client for the remote at baseURL. A zero timeout
// falls back to 30 seconds.
func NewHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote base URL cannot be empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.With(slog.String("component", "remote_client")),
	}, nil
}

// Pull fetches the remote snapshot. A 404 means the remote is empty, which
// is reported as a nil snapshot rather than an error.
func (c *HTTPClient) Pull(ctx context.Context) (*domain.SnapshotPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+snapshotPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pull request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		c.logger.Debug("remote has no snapshot yet")
		return nil, nil
	default:
		drain(resp.Body)
		return nil, fmt.Errorf("pull returned unexpected status %d", resp.StatusCode)
	}

	var snapshot domain.SnapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode remote snapshot: %w", err)
	}
	return &snapshot, nil
}

// Push replaces the remote snapshot with the given one.
func (c *HTTPClient) Push(ctx context.Context, snapshot domain.SnapshotPayload) error {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+snapshotPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	drain(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("push returned unexpected status %d", resp.StatusCode)
	}
	return nil
}

// drain empties a response body so the connection can be reused.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4096))
}
