package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"xanddash/config"
	"xanddash/services"
)

func newProxyTestHandler(t *testing.T, upstream http.HandlerFunc) (*Handler, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.APIKey = "test-key"
	cfg.Backend.Timeout = 5

	return &Handler{
		Cfg:     cfg,
		Backend: services.NewBackendClient(cfg),
	}, srv
}

func doProxyRequest(h *Handler, method, target string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/proxy/*")
	c.SetParamNames("*")
	c.SetParamValues(target[len("/api/proxy/"):])
	return rec, h.Proxy(c)
}

func TestProxyInjectsBearerToken(t *testing.T) {
	var gotAuth string
	h, _ := newProxyTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	})

	rec, err := doProxyRequest(h, http.MethodGet, "/api/proxy/pnodes")
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestProxyScrubsHopByHopHeaders(t *testing.T) {
	h, _ := newProxyTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Keep-Alive", "timeout=5")
		w.Header().Set("Proxy-Authenticate", "Basic")
		w.Header().Set("Upgrade", "h2c")
		w.Header().Set("X-Custom", "kept")
		w.Write([]byte(`{}`))
	})

	rec, err := doProxyRequest(h, http.MethodGet, "/api/proxy/pnodes")
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}

	for _, name := range []string{"Keep-Alive", "Proxy-Authenticate", "Upgrade"} {
		if got := rec.Header().Get(name); got != "" {
			t.Errorf("hop-by-hop header %s leaked: %q", name, got)
		}
	}
	if got := rec.Header().Get("X-Custom"); got != "kept" {
		t.Errorf("end-to-end header dropped, X-Custom = %q", got)
	}
}

func TestProxyScrubsConnectionNamedHeaders(t *testing.T) {
	h, _ := newProxyTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Session-Token", "secret")
		w.Header().Set("Connection", "X-Session-Token")
		w.Write([]byte(`{}`))
	})

	rec, err := doProxyRequest(h, http.MethodGet, "/api/proxy/pnodes")
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	if got := rec.Header().Get("X-Session-Token"); got != "" {
		t.Errorf("Connection-named header leaked: %q", got)
	}
}

func TestProxyMaintenanceMode(t *testing.T) {
	cfg := &config.Config{}
	h := &Handler{Cfg: cfg, Backend: services.NewBackendClient(cfg)}

	rec, err := doProxyRequest(h, http.MethodGet, "/api/proxy/pnodes")
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when backend is unconfigured", rec.Code)
	}
}

func TestProxyForwardsStatusCode(t *testing.T) {
	h, _ := newProxyTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error":"teapot"}`))
	})

	rec, err := doProxyRequest(h, http.MethodGet, "/api/proxy/brew")
	if err != nil {
		t.Fatalf("Proxy: %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418 passed through", rec.Code)
	}
}
