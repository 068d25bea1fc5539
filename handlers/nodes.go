package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"xanddash/models"
	"xanddash/pipeline"
)

// GetPNodes returns the node list after the full view pipeline: filter by
// status and region, sort, paginate.
func (h *Handler) GetPNodes(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	filter := pipeline.FilterSpec{
		Status: c.QueryParam("status"),
		Region: c.QueryParam("region"),
	}
	sortSpec := pipeline.SortSpec{
		Field:     c.QueryParam("sort"),
		Direction: c.QueryParam("order"),
	}

	nodes, stale := h.sourceNodes()

	filtered := pipeline.Filter(nodes, filter)
	sorted := pipeline.Sort(filtered, sortSpec)
	paged := pipeline.Paginate(sorted, limit, page)
	totalPages := pipeline.TotalPages(len(sorted), limit)

	if stale {
		c.Response().Header().Set("X-Data-Stale", "true")
	}

	return c.JSON(http.StatusOK, NodesResponse{
		Nodes: paged,
		Pagination: PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: len(sorted),
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && page <= totalPages,
		},
	})
}

// sourceNodes prefers the live poller list and falls back to the cache, stale
// included, so the endpoint keeps answering across backend outages.
func (h *Handler) sourceNodes() ([]*models.Node, bool) {
	nodes := h.Source.Nodes()
	if len(nodes) > 0 {
		return nodes, false
	}

	if h.Cache != nil {
		if cached, stale, found := h.Cache.GetNodes(true); found {
			return cached, stale
		}
	}
	return nodes, false
}

// GetPNode returns a single node by id (normalized match).
func (h *Handler) GetPNode(c echo.Context) error {
	id := c.Param("id")
	key := pipeline.NormalizeID(id)

	for _, node := range h.Source.Nodes() {
		if pipeline.NormalizeID(node.ID) == key {
			return c.JSON(http.StatusOK, node)
		}
	}

	if h.Cache != nil {
		if node, stale, found := h.Cache.GetNode(id, true); found {
			if stale {
				c.Response().Header().Set("X-Data-Stale", "true")
			}
			return c.JSON(http.StatusOK, node)
		}
	}

	// Last resort: ask the backend directly
	if h.Backend != nil {
		if node, err := h.Backend.GetPNode(c.Request().Context(), id); err == nil {
			return c.JSON(http.StatusOK, node)
		}
	}

	return c.JSON(http.StatusNotFound, ErrorResponse{Error: "node not found: " + id})
}

// RefreshPNodes forces a refresh cycle: backend first (best effort), then the
// local poller and cache.
func (h *Handler) RefreshPNodes(c echo.Context) error {
	if h.Backend != nil {
		// The backend refresh is advisory; a failure there does not stop the
		// local cycle
		_ = h.Backend.RefreshPNodes(c.Request().Context())
	}

	h.Source.Refresh()
	if h.Cache != nil {
		h.Cache.Refresh()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "refreshed",
		"nodeCount": len(h.Source.Nodes()),
		"lastPoll":  h.Source.LastPoll(),
	})
}

// GetLeaderboard returns the credits-ranked leaderboard. The backend's
// leaderboard wins when reachable; the local credits feed is the fallback.
func (h *Handler) GetLeaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}

	if h.Backend != nil {
		if raw, err := h.Backend.GetLeaderboard(c.Request().Context()); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"leaderboard": h.Credits.GetTopCredits(limit),
		"source":      "credits-feed",
	})
}
