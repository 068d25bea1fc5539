package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"xanddash/utils"
)

type analyticsResponse struct {
	CreditsXDNCorrelation float64         `json:"credits_xdn_correlation"`
	StatusDistribution    map[string]int  `json:"status_distribution"`
	VersionDistribution   map[string]int  `json:"version_distribution"`
	RegionDistribution    map[string]int  `json:"region_distribution"`
	Upstream              json.RawMessage `json:"upstream,omitempty"`
}

// GetAnalytics returns locally computed analytics over the current node list,
// with the backend's analytics payload attached when reachable.
func (h *Handler) GetAnalytics(c echo.Context) error {
	nodes := h.Source.Nodes()

	resp := analyticsResponse{
		CreditsXDNCorrelation: utils.CreditsXDNCorrelation(nodes),
		StatusDistribution:    make(map[string]int),
		VersionDistribution:   make(map[string]int),
		RegionDistribution:    make(map[string]int),
	}

	for _, node := range nodes {
		resp.StatusDistribution[node.Status]++
		if node.Version != "" {
			resp.VersionDistribution[node.Version]++
		}
		if node.Region != "" {
			resp.RegionDistribution[node.Region]++
		}
	}

	if h.Backend != nil {
		if raw, err := h.Backend.GetAnalytics(c.Request().Context()); err == nil {
			resp.Upstream = raw
		}
	}

	return c.JSON(http.StatusOK, resp)
}
