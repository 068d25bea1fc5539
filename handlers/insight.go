package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"xanddash/models"
)

// PostInsight runs the AI risk assessment for one node. The response is
// always 200; degraded assessments carry the degraded flag instead of an
// error status so the dashboard card can render either way.
func (h *Handler) PostInsight(c echo.Context) error {
	var req models.InsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid insight request: " + err.Error()})
	}
	if req.PNodeData == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pnodeData is required"})
	}

	// Fill in recent history when the caller did not supply any
	if len(req.History) == 0 && h.History != nil {
		req.History = h.History.GetNodeHistory(req.PNodeData.ID, 1)
	}

	result := h.Insight.Analyze(c.Request().Context(), &req)
	return c.JSON(http.StatusOK, result)
}
