package models

import "time"

// FetchResult is the envelope fetch adapters resolve to. Network failures and
// non-2xx responses populate Error instead of failing the caller, so views
// can render empty/error states without crashing.
type FetchResult struct {
	Data      any       `json:"data"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFetchResult builds a populated result stamped with the current time.
func NewFetchResult(data any, err error) FetchResult {
	r := FetchResult{Data: data, Timestamp: time.Now().UTC()}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
