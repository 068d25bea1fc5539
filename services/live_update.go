package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"xanddash/config"
)

// LiveUpdateClient subscribes to the backend's push channel and republishes
// every change notification onto the invalidation bus, so consumers never
// care whether a refresh hint came from a poll timer or a server push.
//
// Reconnects use linear backoff (attempt * step) up to a bounded attempt
// count; after that the client gives up and polling alone keeps data fresh.
type LiveUpdateClient struct {
	cfg *config.Config
	bus *Bus

	mu   sync.Mutex
	conn *websocket.Conn

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewLiveUpdateClient(cfg *config.Config, bus *Bus) *LiveUpdateClient {
	return &LiveUpdateClient{
		cfg:      cfg,
		bus:      bus,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

func (lu *LiveUpdateClient) Start() {
	if lu.cfg.WebSocket.URL == "" {
		log.Println("Live-update channel not configured, relying on polling only")
		close(lu.doneChan)
		return
	}

	log.Printf("Starting Live Update client (%s)...", lu.cfg.WebSocket.URL)
	go lu.run()
}

func (lu *LiveUpdateClient) Stop() {
	close(lu.stopChan)

	lu.mu.Lock()
	if lu.conn != nil {
		lu.conn.Close()
	}
	lu.mu.Unlock()

	<-lu.doneChan
}

func (lu *LiveUpdateClient) run() {
	defer close(lu.doneChan)

	maxAttempts := lu.cfg.WebSocket.MaxReconnects
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	step := lu.cfg.WebSocketBackoffStep()
	if step <= 0 {
		step = 3 * time.Second
	}

	attempt := 0
	for {
		select {
		case <-lu.stopChan:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(lu.cfg.WebSocket.URL, nil)
		if err != nil {
			attempt++
			if attempt >= maxAttempts {
				log.Printf("Live-update channel unavailable after %d attempts, giving up: %v", attempt, err)
				return
			}

			backoff := time.Duration(attempt) * step
			log.Printf("Live-update connect failed (attempt %d/%d), retrying in %s: %v",
				attempt, maxAttempts, backoff, err)

			select {
			case <-time.After(backoff):
			case <-lu.stopChan:
				return
			}
			continue
		}

		// Successful connection resets the attempt counter
		attempt = 0
		log.Println("✓ Live-update channel connected")

		lu.mu.Lock()
		lu.conn = conn
		lu.mu.Unlock()

		lu.readLoop(conn)

		lu.mu.Lock()
		lu.conn = nil
		lu.mu.Unlock()

		select {
		case <-lu.stopChan:
			return
		default:
			log.Println("Live-update channel dropped, reconnecting...")
		}
	}
}

func (lu *LiveUpdateClient) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Ignoring malformed live-update message: %v", err)
			continue
		}

		switch ev.Type {
		case EventStatsUpdate, EventPNodesUpdate, EventDataUpdated:
			lu.bus.Publish(ev)
		default:
			// Unknown types are forward-compatible noise
		}
	}
}
