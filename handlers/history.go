package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetNetworkHistory returns network snapshots for the trailing window
// (default 24 hours).
func (h *Handler) GetNetworkHistory(c echo.Context) error {
	hours, _ := strconv.Atoi(c.QueryParam("hours"))

	snapshots := h.History.GetNetworkHistory(hours)
	if len(snapshots) == 0 && h.Backend != nil {
		// Nothing collected locally yet, try the backend series
		if raw, err := h.Backend.GetNetworkHistory(c.Request().Context()); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// GetNodeHistory returns snapshots for a single node.
func (h *Handler) GetNodeHistory(c echo.Context) error {
	id := c.Param("id")
	hours, _ := strconv.Atoi(c.QueryParam("hours"))

	snapshots := h.History.GetNodeHistory(id, hours)
	if len(snapshots) == 0 && h.Backend != nil {
		if raw, err := h.Backend.GetPNodeHistory(c.Request().Context(), id); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"node_id":   id,
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// GetAlerts returns recorded status-change alerts.
func (h *Handler) GetAlerts(c echo.Context) error {
	history := h.Alerts.History()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": history,
		"count":  len(history),
	})
}
