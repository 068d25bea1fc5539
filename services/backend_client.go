package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"xanddash/config"
	"xanddash/models"
)

// BackendClient is the fetch adapter for the external pNode REST API. Every
// request carries the configured bearer token. Failures surface as errors to
// the caller; there is no retry policy, views refresh manually or wait for
// the next poll cycle.
type BackendClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewBackendClient(cfg *config.Config) *BackendClient {
	timeout := cfg.BackendTimeoutDuration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &BackendClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

// GetPNodes fetches the full node list.
func (c *BackendClient) GetPNodes(ctx context.Context) ([]*models.Node, error) {
	var nodes []*models.Node
	if err := c.getJSON(ctx, "/pnodes", &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetPNode fetches a single node by id.
func (c *BackendClient) GetPNode(ctx context.Context, id string) (*models.Node, error) {
	var node models.Node
	endpoint := "/pnodes/" + url.PathEscape(id)
	if err := c.getJSON(ctx, endpoint, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// GetPNodeHistory fetches the backend's history series for one node.
func (c *BackendClient) GetPNodeHistory(ctx context.Context, id string) (json.RawMessage, error) {
	return c.getRaw(ctx, "/pnodes/"+url.PathEscape(id)+"/history")
}

// GetLeaderboard fetches the backend leaderboard.
func (c *BackendClient) GetLeaderboard(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/leaderboard")
}

// GetDashboardStats fetches backend-side dashboard statistics.
func (c *BackendClient) GetDashboardStats(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/dashboard/stats")
}

// GetHeatmap fetches the backend network heatmap.
func (c *BackendClient) GetHeatmap(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/network/heatmap")
}

// GetNetworkHistory fetches the backend network history series.
func (c *BackendClient) GetNetworkHistory(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/network/history")
}

// GetAnalytics fetches backend analytics.
func (c *BackendClient) GetAnalytics(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, "/analytics")
}

// RefreshPNodes asks the backend to refresh its node data.
func (c *BackendClient) RefreshPNodes(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/pnodes/refresh", nil)
	return err
}

// Do forwards an arbitrary request body to the backend and returns the raw
// response; the proxy handler builds on this.
func (c *BackendClient) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.cfg.Maintenance() {
		return nil, fmt.Errorf("backend not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Backend.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Backend.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *BackendClient) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *BackendClient) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *BackendClient) do(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	resp, err := c.Do(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend %s %s returned %d: %s", method, path, resp.StatusCode, truncate(data, 256))
	}

	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
