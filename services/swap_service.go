package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"xanddash/config"
)

// SwapService forwards quote and swap requests to the Jupiter aggregator.
// Requests pass through unmodified; responses come back as raw JSON so the
// upstream contract stays intact.
type SwapService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewSwapService(cfg *config.Config) *SwapService {
	return &SwapService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Quote forwards the caller's query string to Jupiter's quote endpoint.
func (ss *SwapService) Quote(ctx context.Context, query url.Values) (json.RawMessage, int, error) {
	endpoint := ss.cfg.Jupiter.BaseURL + "/quote"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	return ss.do(req)
}

// Swap forwards a swap transaction request body to Jupiter.
func (ss *SwapService) Swap(ctx context.Context, body []byte) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ss.cfg.Jupiter.BaseURL+"/swap", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return ss.do(req)
}

func (ss *SwapService) do(req *http.Request) (json.RawMessage, int, error) {
	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("jupiter request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading jupiter response: %w", err)
	}
	return json.RawMessage(data), resp.StatusCode, nil
}
