package services

import (
	"math"
	"strings"
	"testing"

	"xanddash/config"
)

func newTestCalculator() *CalculatorService {
	return NewCalculatorService(&config.Config{})
}

func TestEstimateStoincScalesWithUptime(t *testing.T) {
	cs := newTestCalculator()

	full := cs.EstimateStoinc(10, 100, 1000)
	half := cs.EstimateStoinc(10, 50, 1000)

	if full.DailyCredits <= 0 {
		t.Fatalf("expected positive daily credits, got %f", full.DailyCredits)
	}
	if math.Abs(half.DailyCredits*2-full.DailyCredits) > 1e-9 {
		t.Errorf("50%% uptime should earn half of 100%%: %f vs %f", half.DailyCredits, full.DailyCredits)
	}
	if full.MonthlyCredits != full.DailyCredits*30 {
		t.Errorf("monthly = %f, want %f", full.MonthlyCredits, full.DailyCredits*30)
	}
}

func TestEstimateStoincClampsInputs(t *testing.T) {
	cs := newTestCalculator()

	est := cs.EstimateStoinc(-5, 150, 1000)
	if est.StorageCommitmentTB != 0 {
		t.Errorf("negative storage should clamp to 0, got %f", est.StorageCommitmentTB)
	}
	if est.UptimePercent != 100 {
		t.Errorf("uptime should clamp to 100, got %f", est.UptimePercent)
	}
	if est.DailyCredits != 0 {
		t.Errorf("zero storage earns nothing, got %f", est.DailyCredits)
	}
}

func TestEstimateStoincNetworkShare(t *testing.T) {
	cs := newTestCalculator()

	est := cs.EstimateStoinc(100, 100, 900)
	if math.Abs(est.NetworkSharePercent-10) > 1e-9 {
		t.Errorf("100TB of (900+100)TB should be 10%%, got %f", est.NetworkSharePercent)
	}

	unknown := cs.EstimateStoinc(100, 100, 0)
	if unknown.NetworkSharePercent != 0 || unknown.Notes == "" {
		t.Errorf("unknown network capacity should leave share at 0 with a note: %+v", unknown)
	}
}

func TestCompareCostsRecommendationTiers(t *testing.T) {
	cs := newTestCalculator()

	tests := []struct {
		storageTB float64
		contains  string
	}{
		{1, "small storage"},
		{50, "cost savings"},
		{500, "enterprise scale"},
	}

	for _, tt := range tests {
		got := cs.CompareCosts(tt.storageTB)
		if len(got.Providers) != 4 {
			t.Fatalf("expected 4 providers, got %d", len(got.Providers))
		}
		if !strings.Contains(got.Recommendation, tt.contains) {
			t.Errorf("storageTB=%f: recommendation %q does not mention %q", tt.storageTB, got.Recommendation, tt.contains)
		}
	}
}
