package pipeline

import (
	"strings"
	"time"

	"xanddash/models"
)

type fieldKind int

const (
	kindNumeric fieldKind = iota
	kindDate
	kindString
)

// fieldSpec binds a sortable field name to its comparison semantics: an
// accessor plus a kind that selects the comparator. The registry is built
// once instead of checking string sets at sort time.
type fieldSpec struct {
	kind fieldKind
	num  func(*models.Node) float64
	str  func(*models.Node) string
}

var fieldRegistry = map[string]fieldSpec{
	// Numeric fields: coerced to float64, absent/zero-value compares as 0.
	"credits":         {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.Credits) }},
	"uptime":          {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.Uptime) }},
	"latency":         {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.Latency) }},
	"xdnScore":        {kind: kindNumeric, num: func(n *models.Node) float64 { return n.XDNScore }},
	"storageUsed":     {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.StorageUsed) }},
	"storageCapacity": {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.StorageCapacity) }},
	"performance":     {kind: kindNumeric, num: func(n *models.Node) float64 { return n.Performance }},
	"rewards":         {kind: kindNumeric, num: func(n *models.Node) float64 { return n.Rewards }},
	"validations":     {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.Validations) }},
	"stake":           {kind: kindNumeric, num: func(n *models.Node) float64 { return n.Stake }},
	"riskScore":       {kind: kindNumeric, num: func(n *models.Node) float64 { return n.RiskScore }},
	"cpuPercent":      {kind: kindNumeric, num: func(n *models.Node) float64 { return n.CPUPercent }},
	"memoryUsed":      {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.MemoryUsed) }},
	"packetsIn":       {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.PacketsIn) }},
	"packetsOut":      {kind: kindNumeric, num: func(n *models.Node) float64 { return float64(n.PacketsOut) }},

	// Date fields: parsed to epoch milliseconds, unparsable/absent -> 0.
	"lastSeen": {kind: kindDate, num: func(n *models.Node) float64 { return parseEpochMillis(n.LastSeen) }},

	// String fields: lower-cased, locale-aware comparison.
	"id":       {kind: kindString, str: func(n *models.Node) string { return n.ID }},
	"name":     {kind: kindString, str: func(n *models.Node) string { return n.Name }},
	"location": {kind: kindString, str: func(n *models.Node) string { return n.Location }},
	"region":   {kind: kindString, str: func(n *models.Node) string { return n.Region }},
	"version":  {kind: kindString, str: func(n *models.Node) string { return n.Version }},
	"status":   {kind: kindString, str: func(n *models.Node) string { return n.Status }},
}

func parseEpochMillis(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Some feeds omit the timezone suffix
		t, err = time.Parse("2006-01-02T15:04:05", s)
		if err != nil {
			return 0
		}
	}
	return float64(t.UnixMilli())
}
