package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetStoinc projects STOINC earnings for a hypothetical storage commitment.
func (h *Handler) GetStoinc(c echo.Context) error {
	storageTB, err := strconv.ParseFloat(c.QueryParam("storage_tb"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "storage_tb is required and must be a number"})
	}

	uptime := 100.0
	if v := c.QueryParam("uptime"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			uptime = parsed
		}
	}

	// Network capacity comes from the live aggregate, PB to TB
	var networkTB float64
	if h.Cache != nil {
		if stats, _, found := h.Cache.GetNetworkStats(true); found {
			networkTB = stats.TotalStorage * 1000 // PB to TB
		}
	}

	return c.JSON(http.StatusOK, h.Calculator.EstimateStoinc(storageTB, uptime, networkTB))
}

// CompareCosts compares provider storage pricing for a commitment.
func (h *Handler) CompareCosts(c echo.Context) error {
	storageTB, err := strconv.ParseFloat(c.QueryParam("storage_tb"), 64)
	if err != nil || storageTB <= 0 {
		storageTB = 1
	}
	return c.JSON(http.StatusOK, h.Calculator.CompareCosts(storageTB))
}
