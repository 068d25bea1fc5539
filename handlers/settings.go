package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"xanddash/services"
)

var knownSettingKeys = map[string]bool{
	services.SettingBookmarks:     true,
	services.SettingWidgetLayout:  true,
	services.SettingNotifications: true,
	services.SettingTheme:         true,
	services.SettingDismissals:    true,
}

// GetSetting returns the stored value for one settings key.
func (h *Handler) GetSetting(c echo.Context) error {
	key := c.Param("key")
	if !knownSettingKeys[key] {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown settings key: " + key})
	}

	value, err := h.Settings.Get(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "setting not found: " + key})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSONBlob(http.StatusOK, value)
}

// PutSetting stores a JSON value under one settings key.
func (h *Handler) PutSetting(c echo.Context) error {
	key := c.Param("key")
	if !knownSettingKeys[key] {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown settings key: " + key})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 256<<10))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
	}

	if err := h.Settings.Set(c.Request().Context(), key, body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved", "key": key})
}

// DeleteSetting removes one settings key.
func (h *Handler) DeleteSetting(c echo.Context) error {
	key := c.Param("key")
	if !knownSettingKeys[key] {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown settings key: " + key})
	}

	if err := h.Settings.Delete(c.Request().Context(), key); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted", "key": key})
}
