package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Hop-by-hop headers per RFC 7230 §6.1. These describe one connection, not
// the message, and must not be forwarded in either direction.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards any request under /api/proxy/ to the backend, scrubbing
// hop-by-hop headers both ways and attaching the server-side bearer token.
// Clients never see or supply backend credentials.
func (h *Handler) Proxy(c echo.Context) error {
	path := "/" + c.Param("*")
	if q := c.QueryString(); q != "" {
		path += "?" + q
	}

	req := c.Request()

	resp, err := h.Backend.Do(req.Context(), req.Method, path, req.Body)
	if err != nil {
		if h.Cfg.Maintenance() {
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "backend is not configured, service in maintenance mode"})
		}
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "backend request failed: " + err.Error()})
	}
	defer resp.Body.Close()

	copyScrubbedHeaders(c.Response().Header(), resp.Header)

	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func copyScrubbedHeaders(dst http.Header, src http.Header) {
	// Connection can name additional per-connection headers to drop
	dropped := make(map[string]bool, len(hopByHopHeaders))
	for _, name := range hopByHopHeaders {
		dropped[name] = true
	}
	for _, conn := range src.Values("Connection") {
		for _, name := range strings.Split(conn, ",") {
			if name = strings.TrimSpace(name); name != "" {
				dropped[http.CanonicalHeaderKey(name)] = true
			}
		}
	}

	for name, values := range src {
		if dropped[http.CanonicalHeaderKey(name)] {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}
