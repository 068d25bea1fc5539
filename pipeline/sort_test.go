package pipeline

import (
	"testing"

	"xanddash/models"
)

func TestSort_DefaultOrderingActiveFirstThenName(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Status: models.StatusInactive, Name: "Zeta"},
		{ID: "b", Status: models.StatusActive, Name: "Alpha"},
	}

	out := Sort(nodes, SortSpec{})

	want := []string{"b", "a"}
	got := ids(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("default ordering = %v, want %v", got, want)
		}
	}
}

func TestSort_ActiveGroupAlwaysFirst(t *testing.T) {
	nodes := []*models.Node{
		{ID: "1", Status: models.StatusActive, Latency: 50},
		{ID: "2", Status: models.StatusInactive, Latency: 10},
		{ID: "3", Status: models.StatusActive, Latency: 20},
	}

	out := Sort(nodes, SortSpec{Field: "latency", Direction: DirectionAsc})

	want := []string{"3", "1", "2"}
	got := ids(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v (active group sorted first)", got, want)
		}
	}
}

func TestSort_ActiveFirstInvariantHoldsForAnyField(t *testing.T) {
	nodes := []*models.Node{
		{ID: "w", Status: models.StatusWarning, Credits: 900, Name: "aaa"},
		{ID: "a1", Status: models.StatusActive, Credits: 1, Name: "zzz"},
		{ID: "i", Status: models.StatusInactive, Credits: 500, Name: "mmm"},
		{ID: "a2", Status: models.StatusActive, Credits: 2, Name: "bbb"},
	}

	for _, field := range []string{"credits", "name", "lastSeen", "uptime", "region"} {
		for _, dir := range []string{DirectionAsc, DirectionDesc} {
			out := Sort(nodes, SortSpec{Field: field, Direction: dir})
			seenNonActive := false
			for _, n := range out {
				if n.Status != models.StatusActive {
					seenNonActive = true
				} else if seenNonActive {
					t.Fatalf("field %q dir %q: active node after non-active: %v", field, dir, ids(out))
				}
			}
		}
	}
}

func TestSort_Stability(t *testing.T) {
	// Equal sort keys preserve prior relative order.
	nodes := []*models.Node{
		{ID: "x", Status: models.StatusActive, Latency: 10},
		{ID: "y", Status: models.StatusActive, Latency: 10},
		{ID: "z", Status: models.StatusActive, Latency: 10},
	}

	out := Sort(nodes, SortSpec{Field: "latency", Direction: DirectionAsc})

	want := []string{"x", "y", "z"}
	got := ids(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("equal keys reordered: %v, want %v", got, want)
		}
	}
}

func TestSort_DirectionSymmetry(t *testing.T) {
	// For distinct keys within a single status group, ascending-then-reverse
	// equals descending.
	nodes := []*models.Node{
		{ID: "a", Status: models.StatusActive, Uptime: 300},
		{ID: "b", Status: models.StatusActive, Uptime: 100},
		{ID: "c", Status: models.StatusActive, Uptime: 200},
	}

	asc := Sort(nodes, SortSpec{Field: "uptime", Direction: DirectionAsc})
	desc := Sort(nodes, SortSpec{Field: "uptime", Direction: DirectionDesc})

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("asc %v reversed != desc %v", ids(asc), ids(desc))
		}
	}
}

func TestSort_DateFieldUnparsableComparesAsZero(t *testing.T) {
	nodes := []*models.Node{
		{ID: "recent", Status: models.StatusActive, LastSeen: "2026-08-27T10:00:00Z"},
		{ID: "garbage", Status: models.StatusActive, LastSeen: "not-a-date"},
		{ID: "old", Status: models.StatusActive, LastSeen: "2020-01-01T00:00:00Z"},
	}

	out := Sort(nodes, SortSpec{Field: "lastSeen", Direction: DirectionAsc})

	if out[0].ID != "garbage" {
		t.Errorf("unparsable date should sort first ascending, got %v", ids(out))
	}
	if out[2].ID != "recent" {
		t.Errorf("latest date should sort last ascending, got %v", ids(out))
	}
}

func TestSort_StringFieldCaseInsensitive(t *testing.T) {
	nodes := []*models.Node{
		{ID: "1", Status: models.StatusActive, Name: "beta"},
		{ID: "2", Status: models.StatusActive, Name: "Alpha"},
		{ID: "3", Status: models.StatusActive, Name: "GAMMA"},
	}

	out := Sort(nodes, SortSpec{Field: "name", Direction: DirectionAsc})

	want := []string{"2", "1", "3"}
	got := ids(out)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSort_UnknownFieldFallsBackToDefaultOrdering(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Status: models.StatusInactive, Name: "Early"},
		{ID: "b", Status: models.StatusActive, Name: "Late"},
	}

	out := Sort(nodes, SortSpec{Field: "bogus", Direction: DirectionAsc})
	if out[0].ID != "b" {
		t.Errorf("unknown field should use default active-first ordering, got %v", ids(out))
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Status: models.StatusInactive, Name: "Zeta"},
		{ID: "b", Status: models.StatusActive, Name: "Alpha"},
	}

	Sort(nodes, SortSpec{Field: "name", Direction: DirectionAsc})

	if nodes[0].ID != "a" || nodes[1].ID != "b" {
		t.Errorf("input slice reordered: %v", ids(nodes))
	}
}
