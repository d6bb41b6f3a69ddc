package oauthsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotReady is returned by GetReadiness, alongside the decoded report,
// when the server answers 503 because a dependency failed its check.
var ErrNotReady = errors.New("oauthsdk: service not ready")

// Ready reports whether every dependency check passed.
func (h *HealthResponse) Ready() bool {
	return h.Status == "ok" && (h.Checks == nil || h.Checks.Database == "ok")
}

// GetLiveness checks that the process is serving requests.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	health, err := c.getHealth(ctx, "/livez", false)
	if err != nil {
		return nil, err
	}
	return health, nil
}

// GetReadiness asks the server whether it can reach its storage backend. A
// degraded server yields both the report and an error wrapping ErrNotReady.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	health, err := c.getHealth(ctx, "/readyz", true)
	if err != nil {
		return health, err
	}
	if !health.Ready() {
		database := "unknown"
		if health.Checks != nil {
			database = health.Checks.Database
		}
		return health, fmt.Errorf("%w: status %s, database %s", ErrNotReady, health.Status, database)
	}
	return health, nil
}

// getHealth decodes a health report. With degradedOK a 503 carrying a
// report is decoded rather than treated as a transport error.
func (c *SDKClient) getHealth(ctx context.Context, path string, degradedOK bool) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusServiceUnavailable && degradedOK:
		var health HealthResponse
		if json.Unmarshal(body, &health) == nil && health.Status != "" {
			return &health, nil
		}
		return nil, parseErrorResponse(resp, body)
	default:
		return nil, parseErrorResponse(resp, body)
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &health, nil
}
