package pipeline

import (
	"testing"

	"xanddash/models"
)

func TestMergeCredits_CaseInsensitiveMatch(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Status: models.StatusActive},
		{ID: "B", Status: models.StatusActive},
	}
	entries := []models.PodCreditsEntry{
		{PodID: "A", Credits: 10},
	}

	merged := MergeCredits(nodes, entries)

	if len(merged) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(merged))
	}
	if merged[0].Credits != 10 {
		t.Errorf("node 'a' credits = %d, want 10 (case-insensitive match)", merged[0].Credits)
	}
	if merged[1].Credits != 0 {
		t.Errorf("node 'B' credits = %d, want 0 (no match)", merged[1].Credits)
	}
}

func TestMergeCredits_DefaultZero(t *testing.T) {
	nodes := []*models.Node{
		{ID: "n1"}, {ID: "n2"}, {ID: "n3"},
	}
	entries := []models.PodCreditsEntry{
		{PodID: "n2", Credits: 55},
	}

	merged := MergeCredits(nodes, entries)
	for _, n := range merged {
		if n.ID != "n2" && n.Credits != 0 {
			t.Errorf("node %q credits = %d, want exactly 0 when absent from feed", n.ID, n.Credits)
		}
	}
}

func TestMergeCredits_Idempotent(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a"}, {ID: "b"},
	}
	entries := []models.PodCreditsEntry{
		{PodID: "a", Credits: 7},
		{PodID: "b", Credits: 3},
	}

	once := MergeCredits(nodes, entries)
	twice := MergeCredits(once, entries)

	if len(once) != len(twice) {
		t.Fatalf("length changed on second merge: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Credits != twice[i].Credits {
			t.Errorf("node %q: credits accumulated instead of overwritten: %d vs %d",
				once[i].ID, once[i].Credits, twice[i].Credits)
		}
	}
}

func TestMergeCredits_DuplicateEntriesLastWins(t *testing.T) {
	nodes := []*models.Node{{ID: "a"}}
	entries := []models.PodCreditsEntry{
		{PodID: "a", Credits: 1},
		{PodID: " A ", Credits: 2},
		{PodID: "a", Credits: 9},
	}

	merged := MergeCredits(nodes, entries)
	if merged[0].Credits != 9 {
		t.Errorf("credits = %d, want 9 (last entry wins)", merged[0].Credits)
	}
}

func TestMergeCredits_DeduplicatesNodes(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "other"},
		{ID: "A", Name: "second"},
	}

	merged := MergeCredits(nodes, nil)
	if len(merged) != 2 {
		t.Fatalf("expected duplicate ids collapsed to 2 nodes, got %d", len(merged))
	}
	if merged[0].Name != "second" {
		t.Errorf("duplicate id: kept %q, want last record to win", merged[0].Name)
	}
}

func TestMergeCredits_DoesNotMutateInput(t *testing.T) {
	node := &models.Node{ID: "a", Credits: 0}
	MergeCredits([]*models.Node{node}, []models.PodCreditsEntry{{PodID: "a", Credits: 42}})

	if node.Credits != 0 {
		t.Errorf("input node mutated: credits = %d", node.Credits)
	}
}

func TestMergeCredits_EmptyFeed(t *testing.T) {
	// Credits feed unavailable: pipeline proceeds with all-zero credits.
	nodes := []*models.Node{{ID: "a"}, {ID: "b"}}
	merged := MergeCredits(nodes, nil)

	if len(merged) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(merged))
	}
	for _, n := range merged {
		if n.Credits != 0 {
			t.Errorf("node %q credits = %d, want 0", n.ID, n.Credits)
		}
	}
}
