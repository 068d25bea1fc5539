package utils

import "testing"

func TestCheckVersionStatus(t *testing.T) {
	tests := []struct {
		name        string
		nodeVersion string
		latest      string
		wantStatus  string
		wantUpgrade bool
	}{
		{"on latest", "1.2.0", "1.2.0", VersionCurrent, false},
		{"ahead of latest", "1.3.0", "1.2.0", VersionCurrent, false},
		{"behind latest", "1.1.9", "1.2.0", VersionOutdated, true},
		{"v prefix stripped", "v1.1.0", "v1.2.0", VersionOutdated, true},
		{"garbage version", "not-a-version", "1.2.0", VersionUnknown, false},
		{"empty node version", "", "1.2.0", VersionUnknown, false},
		{"no latest configured", "1.0.0", "", VersionUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, upgrade := CheckVersionStatus(tt.nodeVersion, tt.latest)
			if status != tt.wantStatus || upgrade != tt.wantUpgrade {
				t.Errorf("CheckVersionStatus(%q, %q) = (%q, %v), want (%q, %v)",
					tt.nodeVersion, tt.latest, status, upgrade, tt.wantStatus, tt.wantUpgrade)
			}
		})
	}
}
