package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"xanddash/config"
)

func testBackendConfig(baseURL string) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			BaseURL: baseURL,
			APIKey:  "secret-key",
			Timeout: 5,
		},
	}
}

func TestBackendClient_InjectsBearerToken(t *testing.T) {
	var gotAuth string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer s.Close()

	c := NewBackendClient(testBackendConfig(s.URL))
	if _, err := c.GetPNodes(context.Background()); err != nil {
		t.Fatalf("GetPNodes: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want bearer token injected", gotAuth)
	}
}

func TestBackendClient_DecodesNodes(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pnodes" {
			t.Errorf("path = %q, want /pnodes", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":"a","status":"active","latency":42}]`))
	}))
	defer s.Close()

	c := NewBackendClient(testBackendConfig(s.URL))
	nodes, err := c.GetPNodes(context.Background())
	if err != nil {
		t.Fatalf("GetPNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "a" || nodes[0].Latency != 42 {
		t.Errorf("unexpected decode result: %+v", nodes)
	}
}

func TestBackendClient_Non2xxIsError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer s.Close()

	c := NewBackendClient(testBackendConfig(s.URL))
	_, err := c.GetPNodes(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error missing status code: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Errorf("error missing body excerpt: %q", err.Error())
	}
}

func TestBackendClient_MaintenanceWhenUnconfigured(t *testing.T) {
	c := NewBackendClient(&config.Config{})
	_, err := c.GetPNodes(context.Background())
	if err == nil {
		t.Fatal("expected error when backend is unconfigured")
	}
}
