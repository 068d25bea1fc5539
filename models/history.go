package models

import "time"

// NetworkSnapshot represents network state at a point in time
type NetworkSnapshot struct {
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	TotalNodes     int       `json:"total_nodes" bson:"total_nodes"`
	ActiveNodes    int       `json:"active_nodes" bson:"active_nodes"`
	InactiveNodes  int       `json:"inactive_nodes" bson:"inactive_nodes"`
	WarningNodes   int       `json:"warning_nodes" bson:"warning_nodes"`
	TotalStoragePB float64   `json:"total_storage_pb" bson:"total_storage_pb"`
	UsedStoragePB  float64   `json:"used_storage_pb" bson:"used_storage_pb"`
	AverageLatency float64   `json:"average_latency" bson:"average_latency"`
	NetworkHealth  float64   `json:"network_health" bson:"network_health"`
	TotalCredits   int64     `json:"total_credits" bson:"total_credits"`
}

// NodeSnapshot represents a single node's state at a point in time
type NodeSnapshot struct {
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	NodeID      string    `json:"node_id" bson:"node_id"`
	Status      string    `json:"status" bson:"status"`
	Latency     int64     `json:"latency" bson:"latency"`
	CPUPercent  float64   `json:"cpu_percent" bson:"cpu_percent"`
	MemoryUsed  int64     `json:"memory_used" bson:"memory_used"`
	StorageUsed int64     `json:"storage_used" bson:"storage_used"`
	XDNScore    float64   `json:"xdn_score" bson:"xdn_score"`
	Credits     int64     `json:"credits" bson:"credits"`
}
