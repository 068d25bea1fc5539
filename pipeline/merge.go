package pipeline

import (
	"strings"

	"xanddash/models"
)

// NormalizeID trims and lower-cases a node identifier so both sides of the
// credits join compare consistently.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// MergeCredits left-joins the credits feed onto the node collection by
// normalized identifier. Nodes with no matching entry get credits 0; when the
// feed contains multiple entries for the same identifier the last one wins.
// Duplicate node records (same normalized id) are deduplicated last-wins.
// Inputs are not mutated; the result is a fresh collection.
func MergeCredits(nodes []*models.Node, entries []models.PodCreditsEntry) []*models.Node {
	creditsByID := make(map[string]int64, len(entries))
	for _, e := range entries {
		creditsByID[NormalizeID(e.PodID)] = e.Credits
	}

	out := make([]*models.Node, 0, len(nodes))
	index := make(map[string]int, len(nodes))

	for _, node := range nodes {
		merged := *node
		merged.Credits = creditsByID[NormalizeID(node.ID)]

		key := NormalizeID(node.ID)
		if pos, seen := index[key]; seen {
			out[pos] = &merged
			continue
		}
		index[key] = len(out)
		out = append(out, &merged)
	}

	return out
}
