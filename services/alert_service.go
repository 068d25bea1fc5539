package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"xanddash/models"
	"xanddash/pipeline"
)

// StatusAlert records one observed node status transition.
type StatusAlert struct {
	NodeID    string    `json:"node_id"`
	NodeName  string    `json:"node_name"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// notificationPrefs is the shape of the stored notification setting the alert
// service honors. Missing prefs mean everything is on.
type notificationPrefs struct {
	Enabled    bool `json:"enabled"`
	OnInactive bool `json:"onInactive"`
	OnWarning  bool `json:"onWarning"`
	OnRecovery bool `json:"onRecovery"`
}

// AlertService watches node refresh events and raises an alert whenever a
// node's status changes between refreshes. Alerts go to the in-memory history
// and, when configured, to Discord.
type AlertService struct {
	poller   *NodePoller
	bus      *Bus
	discord  *DiscordBotService
	settings *SettingsStore

	mu         sync.RWMutex
	lastStatus map[string]string
	history    []StatusAlert

	subID    int
	events   <-chan Event
	stopChan chan struct{}
}

const maxAlertHistory = 200

func NewAlertService(poller *NodePoller, bus *Bus, discord *DiscordBotService, settings *SettingsStore) *AlertService {
	return &AlertService{
		poller:     poller,
		bus:        bus,
		discord:    discord,
		settings:   settings,
		lastStatus: make(map[string]string),
		stopChan:   make(chan struct{}),
	}
}

func (as *AlertService) Start() {
	log.Println("Starting Alert Service...")
	as.subID, as.events = as.bus.Subscribe(8)

	go func() {
		for {
			select {
			case ev, ok := <-as.events:
				if !ok {
					return
				}
				if ev.Type == EventPNodesUpdate {
					as.evaluate()
				}
			case <-as.stopChan:
				as.bus.Unsubscribe(as.subID)
				log.Println("Alert Service stopped")
				return
			}
		}
	}()
}

func (as *AlertService) Stop() {
	close(as.stopChan)
}

// evaluate diffs the current node list against the statuses seen on the
// previous refresh. The lock only covers the state diff; notifications go
// out afterwards so a slow Discord call cannot block History() readers.
func (as *AlertService) evaluate() {
	nodes := as.poller.Nodes()
	prefs := as.loadPrefs()

	as.mu.Lock()
	seen := make(map[string]string, len(nodes))
	var fired []StatusAlert
	for _, node := range nodes {
		key := pipeline.NormalizeID(node.ID)
		seen[key] = node.Status

		prev, known := as.lastStatus[key]
		if !known || prev == node.Status {
			continue
		}

		alert := StatusAlert{
			NodeID:    node.ID,
			NodeName:  node.Name,
			From:      prev,
			To:        node.Status,
			Timestamp: time.Now(),
		}
		as.history = append(as.history, alert)
		if len(as.history) > maxAlertHistory {
			as.history = as.history[len(as.history)-maxAlertHistory:]
		}
		fired = append(fired, alert)
	}
	as.lastStatus = seen
	as.mu.Unlock()

	for _, alert := range fired {
		log.Printf("⚠️ Node %s status change: %s -> %s", alert.NodeName, alert.From, alert.To)

		if as.shouldNotify(prefs, alert.To) {
			if err := as.discord.NotifyStatusChange(alert.NodeID, alert.NodeName, alert.From, alert.To); err != nil {
				log.Printf("Discord notification failed: %v", err)
			}
		}
	}
}

func (as *AlertService) loadPrefs() notificationPrefs {
	// Default: notify on everything
	prefs := notificationPrefs{Enabled: true, OnInactive: true, OnWarning: true, OnRecovery: true}
	if as.settings == nil {
		return prefs
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := as.settings.Get(ctx, SettingNotifications)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			log.Printf("Could not load notification prefs: %v", err)
		}
		return prefs
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		log.Printf("Corrupt notification prefs, using defaults: %v", err)
		return notificationPrefs{Enabled: true, OnInactive: true, OnWarning: true, OnRecovery: true}
	}
	return prefs
}

func (as *AlertService) shouldNotify(prefs notificationPrefs, newStatus string) bool {
	if !prefs.Enabled {
		return false
	}
	switch newStatus {
	case models.StatusInactive:
		return prefs.OnInactive
	case models.StatusWarning:
		return prefs.OnWarning
	case models.StatusActive:
		return prefs.OnRecovery
	default:
		return true
	}
}

// History returns recorded alerts, newest last.
func (as *AlertService) History() []StatusAlert {
	as.mu.RLock()
	defer as.mu.RUnlock()

	out := make([]StatusAlert, len(as.history))
	copy(out, as.history)
	return out
}
