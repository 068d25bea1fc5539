package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JupiterQuote forwards the quote query to Jupiter unchanged.
func (h *Handler) JupiterQuote(c echo.Context) error {
	raw, status, err := h.Swap.Quote(c.Request().Context(), c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	return c.JSONBlob(status, raw)
}

// JupiterSwap forwards a swap transaction request to Jupiter unchanged.
func (h *Handler) JupiterSwap(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
	}

	raw, status, err := h.Swap.Swap(c.Request().Context(), body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
	return c.JSONBlob(status, raw)
}
