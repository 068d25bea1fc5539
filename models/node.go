package models

// Node statuses as assigned by the backend. Exactly one applies per node.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusWarning  = "warning"
)

// Node is one storage-provider node as reported by the backend at a point
// in time. Records are ephemeral per fetch cycle; Credits is joined on from
// the separate credits feed and defaults to 0 when the node has no entry.
type Node struct {
	// Identity
	ID string `json:"id"`

	// Descriptive
	Name     string `json:"name"`
	Location string `json:"location"`
	Region   string `json:"region"`
	Version  string `json:"version"`

	// Only present for nodes the backend knows an address for; used as a
	// geolocation fallback when lat/lng are missing.
	IP string `json:"ip,omitempty"`

	// Geospatial (degrees)
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	Status   string `json:"status"`
	LastSeen string `json:"lastSeen"` // ISO-8601, passed through from the backend

	// Metrics (all non-negative)
	Uptime          int64   `json:"uptime"` // seconds
	Latency         int64   `json:"latency"` // ms
	CPUPercent      float64 `json:"cpuPercent"`
	MemoryUsed      int64   `json:"memoryUsed"`
	StorageUsed     int64   `json:"storageUsed"`
	StorageCapacity int64   `json:"storageCapacity"`
	PacketsIn       int64   `json:"packetsIn"`
	PacketsOut      int64   `json:"packetsOut"`
	Stake           float64 `json:"stake"`
	Rewards         float64 `json:"rewards"`
	Performance     float64 `json:"performance"`
	Validations     int64   `json:"validations"`
	RiskScore       float64 `json:"riskScore"`
	XDNScore        float64 `json:"xdnScore"`

	// Joined / derived
	Credits    int64 `json:"credits"`
	Registered bool  `json:"registered"`

	VersionStatus   string `json:"versionStatus,omitempty"` // "current", "outdated", "unknown"
	IsUpgradeNeeded bool   `json:"isUpgradeNeeded,omitempty"`
}
