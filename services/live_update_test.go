package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"xanddash/config"
)

func liveUpdateConfig(url string, maxReconnects int) *config.Config {
	cfg := &config.Config{}
	cfg.WebSocket.URL = url
	cfg.WebSocket.MaxReconnects = maxReconnects
	cfg.WebSocket.BackoffStep = 1
	return cfg
}

func stopWithTimeout(t *testing.T, lu *LiveUpdateClient) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		lu.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return, client goroutine still running")
	}
}

func TestLiveUpdateSkipsWhenUnconfigured(t *testing.T) {
	lu := NewLiveUpdateClient(liveUpdateConfig("", 3), NewBus())
	lu.Start()
	stopWithTimeout(t, lu)
}

func TestLiveUpdateGivesUpAfterBoundedAttempts(t *testing.T) {
	// Nothing listens here, every dial fails immediately
	lu := NewLiveUpdateClient(liveUpdateConfig("ws://127.0.0.1:1", 1), NewBus())
	lu.Start()

	// With a single allowed attempt the client must give up on its own,
	// so Stop has nothing left to wait for
	stopWithTimeout(t, lu)
}

func TestLiveUpdateRepublishesKnownEventsOnly(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Malformed and unknown messages must be swallowed; only the final
		// known type may reach the bus
		msgs := []string{
			`{broken`,
			`{"type":"weather_update"}`,
			`{"type":"pnodes_update"}`,
		}
		for _, m := range msgs {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}

		// Hold the connection open until the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	bus := NewBus()
	defer bus.Close()
	_, events := bus.Subscribe(4)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	lu := NewLiveUpdateClient(liveUpdateConfig(wsURL, 3), bus)
	lu.Start()

	select {
	case ev := <-events:
		if ev.Type != EventPNodesUpdate {
			t.Errorf("republished type = %q, want %q", ev.Type, EventPNodesUpdate)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("known event never reached the bus")
	}

	// The malformed and unknown messages must not have produced events
	select {
	case ev := <-events:
		t.Errorf("unexpected extra event on bus: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}

	stopWithTimeout(t, lu)
}
