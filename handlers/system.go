package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// GetHealth returns OK
func (h *Handler) GetHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// GetStatus returns a service status summary.
func (h *Handler) GetStatus(c echo.Context) error {
	status := map[string]interface{}{
		"status":      "running",
		"uptime":      time.Since(h.startTime).String(),
		"knownNodes":  len(h.Source.Nodes()),
		"lastPoll":    h.Source.LastPoll(),
		"lastFetch":   h.Source.LastResult(),
		"maintenance": h.Cfg.Maintenance(),
		"timestamp":   time.Now(),
	}
	if h.Cache != nil {
		status["cacheMode"] = h.Cache.GetCacheMode()
	}
	return c.JSON(http.StatusOK, status)
}

// GetCacheStats returns cache internals for debugging.
func (h *Handler) GetCacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Cache.GetCacheStats())
}

// ClearCache drops all cached entries.
func (h *Handler) ClearCache(c echo.Context) error {
	if err := h.Cache.ClearCache(); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
}
