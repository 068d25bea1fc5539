package pipeline

import "xanddash/models"

// FilterAll is the identity constraint for both filter dimensions.
const FilterAll = "all"

// FilterSpec holds the independent equality constraints supplied by the UI.
// Constraints are ANDed; "all" (or empty) disables a dimension.
type FilterSpec struct {
	Status string `json:"status"`
	Region string `json:"region"`
}

func (f FilterSpec) matches(n *models.Node) bool {
	if f.Status != "" && f.Status != FilterAll && n.Status != f.Status {
		return false
	}
	if f.Region != "" && f.Region != FilterAll && n.Region != f.Region {
		return false
	}
	return true
}

// Filter returns the subset of nodes satisfying all active constraints,
// preserving input order.
func Filter(nodes []*models.Node, spec FilterSpec) []*models.Node {
	out := make([]*models.Node, 0, len(nodes))
	for _, n := range nodes {
		if spec.matches(n) {
			out = append(out, n)
		}
	}
	return out
}
