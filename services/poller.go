package services

import (
	"context"
	"log"
	"sync"
	"time"

	"xanddash/config"
	"xanddash/models"
	"xanddash/pipeline"
	"xanddash/utils"
)

// NodePoller periodically fetches the node list from the backend, joins the
// credits feed onto it and enriches each record (XDN score, version status,
// geolocation fallback). The latest successful fetch is the published state.
// Overlapping refreshes are last-write-wins: dashboard data is eventually
// consistent and briefly stale results are acceptable.
type NodePoller struct {
	cfg     *config.Config
	backend *BackendClient
	credits *CreditsService
	geo     *utils.GeoResolver
	bus     *Bus

	mu         sync.RWMutex
	nodes      []*models.Node
	lastPoll   time.Time
	lastResult models.FetchResult

	stopChan chan struct{}
}

func NewNodePoller(cfg *config.Config, backend *BackendClient, credits *CreditsService, geo *utils.GeoResolver, bus *Bus) *NodePoller {
	return &NodePoller{
		cfg:      cfg,
		backend:  backend,
		credits:  credits,
		geo:      geo,
		bus:      bus,
		stopChan: make(chan struct{}),
	}
}

func (p *NodePoller) Start() {
	interval := p.cfg.StatsIntervalDuration()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	log.Printf("Starting Node Poller (refresh every %s)...", interval)

	p.Refresh()

	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				p.Refresh()
			case <-p.stopChan:
				ticker.Stop()
				log.Println("Node Poller stopped")
				return
			}
		}
	}()
}

func (p *NodePoller) Stop() {
	close(p.stopChan)
}

// Refresh runs one full fetch-merge-enrich cycle and publishes an update
// event on success. Failures keep the previous node list in place.
func (p *NodePoller) Refresh() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	raw, err := p.backend.GetPNodes(ctx)
	if err != nil {
		log.Printf("Node refresh failed: %v (keeping %d cached nodes)", err, len(p.Nodes()))
		p.mu.Lock()
		p.lastResult = models.NewFetchResult(nil, err)
		p.mu.Unlock()
		return
	}

	merged := pipeline.MergeCredits(raw, p.credits.Entries())
	for _, n := range merged {
		p.enrich(n)
	}

	p.mu.Lock()
	p.nodes = merged
	p.lastPoll = time.Now()
	p.lastResult = models.NewFetchResult(len(merged), nil)
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(Event{Type: EventPNodesUpdate})
	}

	log.Printf("Node refresh complete (%s): %d nodes", time.Since(start).Round(time.Millisecond), len(merged))
}

func (p *NodePoller) enrich(n *models.Node) {
	n.XDNScore = utils.ComputeXDNScore(n)
	n.VersionStatus, n.IsUpgradeNeeded = utils.CheckVersionStatus(n.Version, p.cfg.Network.LatestVersion)

	// Geolocation fallback for nodes reported without coordinates
	if n.Lat == 0 && n.Lng == 0 && n.IP != "" {
		if loc, ok := p.geo.Lookup(n.IP); ok {
			n.Lat = loc.Lat
			n.Lng = loc.Lng
			if n.Location == "" {
				n.Location = loc.City
			}
			if n.Region == "" {
				n.Region = loc.Country
			}
		}
	}
}

// Nodes returns the latest published node list.
func (p *NodePoller) Nodes() []*models.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*models.Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// LastPoll reports when the last successful refresh completed.
func (p *NodePoller) LastPoll() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastPoll
}

// LastResult reports the outcome of the most recent refresh attempt, error
// included, for the status endpoint.
func (p *NodePoller) LastResult() models.FetchResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastResult
}
