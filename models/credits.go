package models

import "time"

// PodCreditsEntry is one row of the external credits feed.
type PodCreditsEntry struct {
	PodID   string `json:"pod_id"`
	Credits int64  `json:"credits"`
}

// PodCreditsResponse is the wire shape of the credits feed.
type PodCreditsResponse struct {
	PodsCredits []PodCreditsEntry `json:"pods_credits"`
	Status      string            `json:"status,omitempty"`
}

// PodCredits is the tracked per-node credits state, ranked after each fetch.
type PodCredits struct {
	PodID         string    `json:"pod_id"`
	Credits       int64     `json:"credits"`
	Rank          int       `json:"rank,omitempty"`
	CreditsChange int64     `json:"credits_change,omitempty"` // change since last fetch
	LastUpdated   time.Time `json:"last_updated"`
}
