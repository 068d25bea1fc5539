package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"xanddash/models"
)

// GetDashboardStats returns the aggregated network statistics, served from
// cache when fresh enough and recomputed otherwise.
func (h *Handler) GetDashboardStats(c echo.Context) error {
	if h.Cache != nil {
		if stats, stale, found := h.Cache.GetNetworkStats(true); found {
			if stale {
				c.Response().Header().Set("X-Data-Stale", "true")
			}
			return c.JSON(http.StatusOK, stats)
		}
	}

	stats := h.Aggregator.Aggregate()
	return c.JSON(http.StatusOK, stats)
}

type heatmapPoint struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Count    int     `json:"count"`
	Active   int     `json:"active"`
}

// GetHeatmap returns node density by coordinate. The backend heatmap wins
// when reachable; otherwise it is derived from the local node list.
func (h *Handler) GetHeatmap(c echo.Context) error {
	if h.Backend != nil {
		if raw, err := h.Backend.GetHeatmap(c.Request().Context()); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	type coord struct{ lat, lng float64 }
	buckets := make(map[coord]*heatmapPoint)
	order := make([]coord, 0)

	for _, node := range h.Source.Nodes() {
		if node.Lat == 0 && node.Lng == 0 {
			continue
		}
		key := coord{node.Lat, node.Lng}
		point, ok := buckets[key]
		if !ok {
			point = &heatmapPoint{Location: node.Location, Lat: node.Lat, Lng: node.Lng}
			buckets[key] = point
			order = append(order, key)
		}
		point.Count++
		if node.Status == models.StatusActive {
			point.Active++
		}
	}

	points := make([]*heatmapPoint, 0, len(order))
	for _, key := range order {
		points = append(points, buckets[key])
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"points": points})
}
