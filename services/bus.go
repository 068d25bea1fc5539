package services

import (
	"encoding/json"
	"sync"
)

// Update types carried on the invalidation bus. These mirror the message
// types pushed on the live-update channel.
const (
	EventStatsUpdate  = "stats_update"
	EventPNodesUpdate = "pnodes_update"
	EventDataUpdated  = "data_updated"
)

// Event is a cache-invalidation notification. Both the time-based pollers
// and the live-update channel publish these; consumers subscribe instead of
// caring which transport produced the signal.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Bus is an in-process publish/subscribe fanout. Publish never blocks: a
// subscriber that falls behind misses events rather than stalling producers,
// which is acceptable because every event is a refresh hint, not data.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a consumer and returns its id and receive channel.
func (b *Bus) Subscribe(buffer int) (int, <-chan Event) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a consumer and closes its channel.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish fans the event out to all subscribers, dropping it for any whose
// buffer is full.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close shuts down the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
