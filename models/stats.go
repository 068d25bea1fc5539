package models

import "time"

// NetworkStats represents aggregated network statistics
type NetworkStats struct {
	TotalNodes    int `json:"total_nodes"`
	ActiveNodes   int `json:"active_nodes"`
	InactiveNodes int `json:"inactive_nodes"`
	WarningNodes  int `json:"warning_nodes"`

	TotalStorage float64 `json:"total_storage_pb"` // Petabytes
	UsedStorage  float64 `json:"used_storage_pb"`  // Petabytes

	AverageUptime      float64 `json:"average_uptime"`
	AverageLatency     float64 `json:"average_latency_ms"`
	AveragePerformance float64 `json:"average_performance"`

	TotalStake   float64 `json:"total_stake"`
	TotalCredits int64   `json:"total_credits"`

	NetworkHealth float64 `json:"network_health"` // 0-100

	LastUpdated time.Time `json:"last_updated"`
}
