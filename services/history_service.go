package services

import (
	"context"
	"log"
	"sync"
	"time"

	"xanddash/config"
	"xanddash/models"
	"xanddash/pipeline"
)

// maxRecentSnapshots bounds the in-memory rings: one hour of data at the
// default one-minute history interval.
const maxRecentSnapshots = 60

// HistoryService periodically captures network and per-node snapshots.
// Snapshots land in MongoDB when it is enabled; an in-memory ring always
// keeps the last hour so history endpoints work without a database.
type HistoryService struct {
	cfg        *config.Config
	poller     *NodePoller
	aggregator *DataAggregator
	mongo      *MongoDBService

	mutex                  sync.RWMutex
	recentNetworkSnapshots []models.NetworkSnapshot
	recentNodeSnapshots    map[string][]models.NodeSnapshot

	stopChan chan struct{}
}

func NewHistoryService(cfg *config.Config, poller *NodePoller, aggregator *DataAggregator, mongo *MongoDBService) *HistoryService {
	return &HistoryService{
		cfg:                 cfg,
		poller:              poller,
		aggregator:          aggregator,
		mongo:               mongo,
		recentNodeSnapshots: make(map[string][]models.NodeSnapshot),
		stopChan:            make(chan struct{}),
	}
}

func (hs *HistoryService) Start() {
	interval := hs.cfg.HistoryIntervalDuration()
	if interval <= 0 {
		interval = time.Minute
	}
	log.Printf("Starting History Service (snapshot every %s)...", interval)

	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				hs.collectSnapshot()
			case <-hs.stopChan:
				ticker.Stop()
				log.Println("History Service stopped")
				return
			}
		}
	}()
}

func (hs *HistoryService) Stop() {
	close(hs.stopChan)
}

func (hs *HistoryService) collectSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := hs.aggregator.Aggregate()
	nodes := hs.poller.Nodes()
	now := time.Now()

	netSnap := models.NetworkSnapshot{
		Timestamp:      now,
		TotalNodes:     stats.TotalNodes,
		ActiveNodes:    stats.ActiveNodes,
		InactiveNodes:  stats.InactiveNodes,
		WarningNodes:   stats.WarningNodes,
		TotalStoragePB: stats.TotalStorage,
		UsedStoragePB:  stats.UsedStorage,
		AverageLatency: stats.AverageLatency,
		NetworkHealth:  stats.NetworkHealth,
		TotalCredits:   stats.TotalCredits,
	}

	if err := hs.mongo.InsertNetworkSnapshot(ctx, &netSnap); err != nil {
		log.Printf("Error saving network snapshot to MongoDB: %v", err)
	}

	nodeSnaps := make([]models.NodeSnapshot, 0, len(nodes))
	for _, node := range nodes {
		nodeSnaps = append(nodeSnaps, models.NodeSnapshot{
			Timestamp:   now,
			NodeID:      node.ID,
			Status:      node.Status,
			Latency:     node.Latency,
			CPUPercent:  node.CPUPercent,
			MemoryUsed:  node.MemoryUsed,
			StorageUsed: node.StorageUsed,
			XDNScore:    node.XDNScore,
			Credits:     node.Credits,
		})
	}

	if err := hs.mongo.InsertNodeSnapshots(ctx, nodeSnaps); err != nil {
		log.Printf("Error saving node snapshots to MongoDB: %v", err)
	}

	hs.mutex.Lock()
	hs.recentNetworkSnapshots = append(hs.recentNetworkSnapshots, netSnap)
	if len(hs.recentNetworkSnapshots) > maxRecentSnapshots {
		hs.recentNetworkSnapshots = hs.recentNetworkSnapshots[len(hs.recentNetworkSnapshots)-maxRecentSnapshots:]
	}
	for _, snap := range nodeSnaps {
		key := pipeline.NormalizeID(snap.NodeID)
		ring := append(hs.recentNodeSnapshots[key], snap)
		if len(ring) > maxRecentSnapshots {
			ring = ring[len(ring)-maxRecentSnapshots:]
		}
		hs.recentNodeSnapshots[key] = ring
	}
	hs.mutex.Unlock()

	log.Printf("Collected snapshot: %d nodes, %.2f PB used", stats.TotalNodes, stats.UsedStorage)
}

// GetNetworkHistory returns network snapshots for the trailing window.
// MongoDB serves windows longer than the in-memory ring covers; the ring
// answers everything else and every failure path.
func (hs *HistoryService) GetNetworkHistory(hours int) []models.NetworkSnapshot {
	if hours <= 0 {
		hours = 24
	}

	if hs.mongo.Enabled() && hours > 1 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snaps, err := hs.mongo.GetNetworkSnapshotsRange(ctx, time.Now().Add(-time.Duration(hours)*time.Hour), time.Now())
		if err != nil {
			log.Printf("Error fetching network history from MongoDB: %v", err)
			return hs.inMemoryNetworkHistory(hours)
		}
		return snaps
	}

	return hs.inMemoryNetworkHistory(hours)
}

func (hs *HistoryService) inMemoryNetworkHistory(hours int) []models.NetworkSnapshot {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	out := make([]models.NetworkSnapshot, 0, len(hs.recentNetworkSnapshots))
	for _, snap := range hs.recentNetworkSnapshots {
		if snap.Timestamp.After(cutoff) {
			out = append(out, snap)
		}
	}
	return out
}

// GetNodeHistory returns snapshots for a single node (normalized id match).
func (hs *HistoryService) GetNodeHistory(nodeID string, hours int) []models.NodeSnapshot {
	if hours <= 0 {
		hours = 24
	}

	if hs.mongo.Enabled() && hours > 1 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snaps, err := hs.mongo.GetNodeSnapshotsRange(ctx, nodeID, time.Now().Add(-time.Duration(hours)*time.Hour), time.Now())
		if err != nil {
			log.Printf("Error fetching node history from MongoDB: %v", err)
			return hs.inMemoryNodeHistory(nodeID, hours)
		}
		return snaps
	}

	return hs.inMemoryNodeHistory(nodeID, hours)
}

func (hs *HistoryService) inMemoryNodeHistory(nodeID string, hours int) []models.NodeSnapshot {
	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	ring := hs.recentNodeSnapshots[pipeline.NormalizeID(nodeID)]
	out := make([]models.NodeSnapshot, 0, len(ring))
	for _, snap := range ring {
		if snap.Timestamp.After(cutoff) {
			out = append(out, snap)
		}
	}
	return out
}
