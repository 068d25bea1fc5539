package models

// InsightRequest is the body of POST /api/ai/insight.
type InsightRequest struct {
	PNodeData *Node          `json:"pnodeData"`
	History   []NodeSnapshot `json:"history,omitempty"`
}

// InsightResult is the AI-generated risk assessment for a node. Degraded is
// set when the upstream model was unavailable and the fixed fallback payload
// was returned instead; callers must handle that case rather than treating
// the upstream failure as an error.
type InsightResult struct {
	RiskScore       float64  `json:"riskScore"`
	Explanation     string   `json:"explanation"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Degraded        bool     `json:"degraded,omitempty"`
}
