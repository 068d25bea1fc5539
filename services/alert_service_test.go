package services

import (
	"testing"

	"xanddash/models"
)

func newTestAlertService(nodes []*models.Node) (*AlertService, *NodePoller) {
	poller := &NodePoller{nodes: nodes}
	discord, _ := NewDiscordBotService("", "")
	return NewAlertService(poller, NewBus(), discord, nil), poller
}

func TestEvaluateRecordsStatusTransitions(t *testing.T) {
	nodes := []*models.Node{
		{ID: "n1", Name: "alpha", Status: models.StatusActive},
		{ID: "n2", Name: "bravo", Status: models.StatusActive},
	}
	as, poller := newTestAlertService(nodes)

	// First pass only seeds the baseline, no transitions yet
	as.evaluate()
	if got := as.History(); len(got) != 0 {
		t.Fatalf("first evaluation raised %d alerts, want 0", len(got))
	}

	poller.nodes = []*models.Node{
		{ID: "n1", Name: "alpha", Status: models.StatusInactive},
		{ID: "n2", Name: "bravo", Status: models.StatusActive},
	}
	as.evaluate()

	got := as.History()
	if len(got) != 1 {
		t.Fatalf("alerts = %d, want 1", len(got))
	}
	if got[0].NodeID != "n1" || got[0].From != models.StatusActive || got[0].To != models.StatusInactive {
		t.Errorf("unexpected alert: %+v", got[0])
	}
}

func TestEvaluateIgnoresUnchangedAndNewNodes(t *testing.T) {
	as, poller := newTestAlertService([]*models.Node{
		{ID: "n1", Name: "alpha", Status: models.StatusActive},
	})
	as.evaluate()

	// A node appearing for the first time is baseline, not a transition
	poller.nodes = []*models.Node{
		{ID: "n1", Name: "alpha", Status: models.StatusActive},
		{ID: "n9", Name: "india", Status: models.StatusWarning},
	}
	as.evaluate()

	if got := as.History(); len(got) != 0 {
		t.Errorf("alerts = %d, want 0 for unchanged and newly seen nodes", len(got))
	}
}

func TestEvaluateCapsHistory(t *testing.T) {
	as, poller := newTestAlertService([]*models.Node{
		{ID: "n1", Name: "alpha", Status: models.StatusActive},
	})
	as.evaluate()

	statuses := []string{models.StatusInactive, models.StatusActive}
	for i := 0; i < maxAlertHistory+10; i++ {
		poller.nodes = []*models.Node{{ID: "n1", Name: "alpha", Status: statuses[i%2]}}
		as.evaluate()
	}

	if got := len(as.History()); got != maxAlertHistory {
		t.Errorf("history length = %d, want capped at %d", got, maxAlertHistory)
	}
}

func TestShouldNotifyHonorsPrefs(t *testing.T) {
	as, _ := newTestAlertService(nil)

	prefs := notificationPrefs{Enabled: true, OnInactive: true, OnWarning: false, OnRecovery: true}
	tests := []struct {
		status string
		want   bool
	}{
		{models.StatusInactive, true},
		{models.StatusWarning, false},
		{models.StatusActive, true},
	}
	for _, tt := range tests {
		if got := as.shouldNotify(prefs, tt.status); got != tt.want {
			t.Errorf("shouldNotify(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}

	off := notificationPrefs{Enabled: false, OnInactive: true}
	if as.shouldNotify(off, models.StatusInactive) {
		t.Error("disabled prefs must suppress every notification")
	}
}
