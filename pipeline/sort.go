package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"xanddash/models"
)

// Sort directions. Empty direction (or field) means "no active sort" and
// yields the default ordering.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// SortSpec is the user-selected ordering: one field at a time, cycling
// none -> asc -> desc -> none in the UI.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func (s SortSpec) active() bool {
	if s.Field == "" || s.Direction == "" {
		return false
	}
	_, known := fieldRegistry[s.Field]
	return known
}

// Sort returns a totally ordered copy of the filtered collection.
//
// Active-status records always precede non-active records, regardless of the
// requested field: the two groups are sorted independently and concatenated.
// With no active sort the default ordering applies: active first, then name
// (locale-aware). The underlying sort is stable so equal keys preserve their
// prior relative order.
func Sort(nodes []*models.Node, spec SortSpec) []*models.Node {
	out := make([]*models.Node, len(nodes))
	copy(out, nodes)

	col := collate.New(language.English)

	if !spec.active() {
		sort.SliceStable(out, func(i, j int) bool {
			ai, aj := out[i].Status == models.StatusActive, out[j].Status == models.StatusActive
			if ai != aj {
				return ai
			}
			return col.CompareString(strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)) < 0
		})
		return out
	}

	fs := fieldRegistry[spec.Field]
	cmp := comparator(fs, col)
	if spec.Direction == DirectionDesc {
		inner := cmp
		cmp = func(a, b *models.Node) int { return -inner(a, b) }
	}

	active := make([]*models.Node, 0, len(out))
	rest := make([]*models.Node, 0, len(out))
	for _, n := range out {
		if n.Status == models.StatusActive {
			active = append(active, n)
		} else {
			rest = append(rest, n)
		}
	}

	sortGroup(active, cmp)
	sortGroup(rest, cmp)

	return append(active, rest...)
}

func sortGroup(nodes []*models.Node, cmp func(a, b *models.Node) int) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return cmp(nodes[i], nodes[j]) < 0
	})
}

func comparator(fs fieldSpec, col *collate.Collator) func(a, b *models.Node) int {
	switch fs.kind {
	case kindNumeric, kindDate:
		return func(a, b *models.Node) int {
			d := fs.num(a) - fs.num(b)
			switch {
			case d < 0:
				return -1
			case d > 0:
				return 1
			default:
				return 0
			}
		}
	default:
		return func(a, b *models.Node) int {
			return col.CompareString(strings.ToLower(fs.str(a)), strings.ToLower(fs.str(b)))
		}
	}
}
