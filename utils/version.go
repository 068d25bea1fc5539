package utils

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// Version statuses reported on node records.
const (
	VersionCurrent  = "current"
	VersionOutdated = "outdated"
	VersionUnknown  = "unknown"
)

// CheckVersionStatus compares a node's reported version against the latest
// known release. Unparsable versions report "unknown" without flagging an
// upgrade.
func CheckVersionStatus(nodeVersion, latest string) (status string, needsUpgrade bool) {
	if latest == "" {
		return VersionUnknown, false
	}

	nodeVer, err := version.NewVersion(strings.TrimPrefix(nodeVersion, "v"))
	if err != nil {
		return VersionUnknown, false
	}

	latestVer, err := version.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return VersionUnknown, false
	}

	if nodeVer.LessThan(latestVer) {
		return VersionOutdated, true
	}
	return VersionCurrent, false
}
