package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"xanddash/config"
)

// MaintenanceMiddleware short-circuits data routes with a fixed response
// while the upstream backend is unconfigured. Health, settings and calculator
// routes stay up since they do not depend on the backend.
func MaintenanceMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	exempt := []string{
		"/health",
		"/api/status",
		"/api/settings",
		"/api/calculator",
		"/api/credits",
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Maintenance() {
				return next(c)
			}

			path := c.Request().URL.Path
			for _, prefix := range exempt {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error":  "service in maintenance mode",
				"reason": "upstream backend is not configured",
			})
		}
	}
}
