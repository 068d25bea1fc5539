package utils

import (
	"math"

	"xanddash/models"
)

// XDN score weights. The score is a composite of stake, uptime, latency and
// risk, normalized to 0-100 and used for ranking nodes.
const (
	weightStake   = 0.30
	weightUptime  = 0.30
	weightLatency = 0.20
	weightRisk    = 0.20

	// Normalization ceilings: values at or above these score full marks.
	stakeCeiling  = 100000.0
	uptimeCeiling = 30 * 24 * 3600.0 // 30 days of uptime
	// Latency at or below this floor scores full marks; the score decays
	// linearly to zero at latencyCeiling.
	latencyFloor   = 20.0
	latencyCeiling = 1000.0
)

// ComputeXDNScore derives the composite XDN score for a node. Backend-supplied
// scores are kept as-is; this only fills in nodes that arrived without one.
func ComputeXDNScore(n *models.Node) float64 {
	if n.XDNScore > 0 {
		return n.XDNScore
	}

	stakeScore := clamp01(n.Stake/stakeCeiling) * 100
	uptimeScore := clamp01(float64(n.Uptime)/uptimeCeiling) * 100

	latencyScore := 100.0
	if float64(n.Latency) > latencyFloor {
		latencyScore = (1 - clamp01((float64(n.Latency)-latencyFloor)/(latencyCeiling-latencyFloor))) * 100
	}

	// RiskScore is 0-100 where higher is riskier
	riskScore := 100 - clamp01(n.RiskScore/100)*100

	score := stakeScore*weightStake +
		uptimeScore*weightUptime +
		latencyScore*weightLatency +
		riskScore*weightRisk

	return math.Round(score*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CreditsXDNCorrelation computes the Pearson correlation coefficient between
// node credits and XDN scores. Returns 0 when there is no variance or fewer
// than two nodes.
func CreditsXDNCorrelation(nodes []*models.Node) float64 {
	if len(nodes) < 2 {
		return 0
	}

	var sumX, sumY float64
	for _, n := range nodes {
		sumX += float64(n.Credits)
		sumY += n.XDNScore
	}
	meanX := sumX / float64(len(nodes))
	meanY := sumY / float64(len(nodes))

	var cov, varX, varY float64
	for _, n := range nodes {
		dx := float64(n.Credits) - meanX
		dy := n.XDNScore - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	return cov / math.Sqrt(varX*varY)
}
