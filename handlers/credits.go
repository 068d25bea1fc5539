package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// GetCredits returns the latest pod credits snapshot. The network query
// parameter is accepted for URL compatibility; the served snapshot follows
// the configured network.
func (h *Handler) GetCredits(c echo.Context) error {
	network := c.QueryParam("network")
	if network == "" {
		network = h.Cfg.Credits.Network
	}

	all := h.Credits.GetAllCredits()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"network":      h.Cfg.Credits.Network,
		"requested":    network,
		"pods_credits": all,
		"count":        len(all),
		"timestamp":    time.Now(),
	})
}

// GetNodeCredits returns credits for one node id.
func (h *Handler) GetNodeCredits(c echo.Context) error {
	id := c.Param("id")

	credits, found := h.Credits.GetCredits(id)
	if !found {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no credits tracked for node: " + id})
	}
	return c.JSON(http.StatusOK, credits)
}
