package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"xanddash/config"
	"xanddash/models"
)

// CacheMode indicates which cache backend is active
type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
)

// CacheItem for in-memory fallback
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// CacheService keeps the latest node list and network stats hot for the HTTP
// layer. It prefers Redis and falls back to an in-memory store when Redis is
// unreachable, switching back once health checks succeed again. Refreshes are
// driven by the stats-interval ticker and by invalidation events on the bus.
type CacheService struct {
	cfg        *config.Config
	poller     *NodePoller
	aggregator *DataAggregator
	bus        *Bus

	redis       *redis.Client
	redisCtx    context.Context
	redisCancel context.CancelFunc
	mode        CacheMode
	modeMutex   sync.RWMutex

	inMemoryStore sync.Map

	busID    int
	stopChan chan struct{}
}

func NewCacheService(cfg *config.Config, poller *NodePoller, aggregator *DataAggregator, bus *Bus) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())

	cs := &CacheService{
		cfg:         cfg,
		poller:      poller,
		aggregator:  aggregator,
		bus:         bus,
		redisCtx:    ctx,
		redisCancel: cancel,
		stopChan:    make(chan struct{}),
		mode:        CacheModeInMemory,
	}

	if cfg.Redis.Enabled {
		cs.connectRedis()
	} else {
		log.Println("Redis disabled in config, using in-memory cache only")
	}

	return cs
}

func (cs *CacheService) connectRedis() {
	if cs.cfg.Redis.Address == "" {
		log.Println("Redis address not configured, using in-memory cache")
		return
	}

	options := &redis.Options{
		Addr:         cs.cfg.Redis.Address,
		Password:     cs.cfg.Redis.Password,
		DB:           cs.cfg.Redis.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		PoolTimeout:  10 * time.Second,
	}

	if cs.cfg.Redis.UseTLS {
		options.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, // cloud providers with shared certs
		}
	}

	cs.redis = redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pong, err := cs.redis.Ping(ctx).Result()
	if err != nil {
		log.Printf("⚠️  Redis connection failed: %v", err)
		log.Printf("⚠️  Running in IN-MEMORY mode")
		cs.setMode(CacheModeInMemory)
		return
	}

	log.Printf("✓ Redis connected successfully (response: %s)", pong)
	cs.setMode(CacheModeRedis)
}

func (cs *CacheService) setMode(mode CacheMode) {
	cs.modeMutex.Lock()
	defer cs.modeMutex.Unlock()
	cs.mode = mode
}

func (cs *CacheService) getMode() CacheMode {
	cs.modeMutex.RLock()
	defer cs.modeMutex.RUnlock()
	return cs.mode
}

// StartCacheWarmer starts the background refresh loop, the Redis health
// checker and the invalidation-bus listener.
func (cs *CacheService) StartCacheWarmer() {
	log.Println("Starting Cache Warmer...")

	cs.Refresh()

	go cs.runRefreshLoop()
	go cs.runHealthCheckLoop()

	if cs.bus != nil {
		var events <-chan Event
		cs.busID, events = cs.bus.Subscribe(8)
		go cs.runInvalidationLoop(events)
	}
}

func (cs *CacheService) Stop() {
	close(cs.stopChan)
	cs.redisCancel()

	if cs.bus != nil {
		cs.bus.Unsubscribe(cs.busID)
	}
	if cs.redis != nil {
		cs.redis.Close()
	}
}

func (cs *CacheService) runRefreshLoop() {
	interval := cs.cfg.StatsIntervalDuration()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cs.Refresh()
		case <-cs.stopChan:
			return
		}
	}
}

// runInvalidationLoop refreshes the cache whenever a poller or the
// live-update channel signals that upstream data changed.
func (cs *CacheService) runInvalidationLoop(events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case EventPNodesUpdate, EventStatsUpdate, EventDataUpdated:
				cs.Refresh()
			}
		case <-cs.stopChan:
			return
		}
	}
}

func (cs *CacheService) runHealthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cs.checkRedisHealth()
		case <-cs.stopChan:
			return
		}
	}
}

func (cs *CacheService) checkRedisHealth() {
	if !cs.cfg.Redis.Enabled || cs.redis == nil {
		return
	}

	mode := cs.getMode()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cs.redis.Ping(ctx).Result()

	if mode == CacheModeRedis && err != nil {
		log.Printf("⚠️  Redis health check failed: %v", err)
		log.Printf("⚠️  Switching to IN-MEMORY mode")
		cs.setMode(CacheModeInMemory)
	} else if mode == CacheModeInMemory && err == nil {
		log.Printf("✓ Redis reconnected! Switching back to REDIS mode")
		cs.syncInMemoryToRedis()
		cs.setMode(CacheModeRedis)
	}
}

// syncInMemoryToRedis replays still-fresh in-memory entries into Redis after
// a reconnect, so the mode switch does not start from a cold cache.
func (cs *CacheService) syncInMemoryToRedis() {
	synced, skipped := 0, 0
	cs.inMemoryStore.Range(func(key, value interface{}) bool {
		item := value.(*CacheItem)

		remaining := time.Until(item.ExpiresAt)
		if remaining <= 0 {
			skipped++
			return true
		}
		if err := cs.setRedis(key.(string), item.Data, remaining); err == nil {
			synced++
		}
		return true
	})

	log.Printf("Replayed %d cache entries to Redis (%d expired, skipped)", synced, skipped)
}

// Refresh pulls the latest node list and aggregate stats into the cache.
func (cs *CacheService) Refresh() {
	start := time.Now()

	stats := cs.aggregator.Aggregate()
	nodes := cs.poller.Nodes()

	ttl := cs.cfg.CacheTTLDuration()
	if ttl <= 0 {
		ttl = 35 * time.Second
	}

	cs.Set("stats", stats, ttl)
	cs.Set("nodes", nodes, ttl)

	for _, n := range nodes {
		cs.Set("node:"+n.ID, n, 60*time.Second)
	}

	log.Printf("Cache refreshed (%s): %d active/%d total nodes | Mode: %s",
		time.Since(start).Round(time.Millisecond), stats.ActiveNodes, len(nodes), cs.getMode())
}

// ============================================
// Generic Set/Get with Redis + In-Memory
// ============================================

// Set stores data in the active cache backend
func (cs *CacheService) Set(key string, data interface{}, ttl time.Duration) {
	mode := cs.getMode()

	if mode == CacheModeRedis {
		if err := cs.setRedis(key, data, ttl); err != nil {
			log.Printf("Redis SET failed for '%s': %v (falling back to in-memory)", key, err)
			cs.setInMemory(key, data, ttl)
		}
	} else {
		cs.setInMemory(key, data, ttl)
	}
}

// Get retrieves data from the active cache backend
func (cs *CacheService) Get(key string) (interface{}, bool) {
	mode := cs.getMode()

	if mode == CacheModeRedis {
		data, found, err := cs.getRedis(key)
		if err != nil {
			return cs.getInMemory(key)
		}
		return data, found
	}

	return cs.getInMemory(key)
}

// GetWithStale retrieves data and indicates if it's stale
func (cs *CacheService) GetWithStale(key string) (interface{}, bool, bool) {
	mode := cs.getMode()

	if mode == CacheModeRedis {
		data, found, err := cs.getRedis(key)
		if err != nil {
			data, found := cs.getInMemory(key)
			return data, false, found
		}
		// Redis manages TTL, so if found, it's fresh
		return data, false, found
	}

	return cs.getInMemoryWithStale(key)
}

// ============================================
// Redis Operations
// ============================================

func (cs *CacheService) setRedis(key string, data interface{}, ttl time.Duration) error {
	if cs.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
	defer cancel()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return cs.redis.Set(ctx, key, jsonData, ttl).Err()
}

func (cs *CacheService) getRedis(key string) (interface{}, bool, error) {
	if cs.redis == nil {
		return nil, false, fmt.Errorf("redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
	defer cancel()

	raw, err := cs.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, err := decodeCachedValue(key, raw)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// decodeCachedValue rehydrates a Redis payload into the concrete type the
// typed getters expect; Redis stores JSON, the in-memory store keeps live
// values, and the two paths must hand back identical shapes.
func decodeCachedValue(key string, raw []byte) (interface{}, error) {
	switch {
	case key == "stats":
		var stats models.NetworkStats
		if err := json.Unmarshal(raw, &stats); err != nil {
			return nil, err
		}
		return stats, nil
	case key == "nodes":
		var nodes []*models.Node
		if err := json.Unmarshal(raw, &nodes); err != nil {
			return nil, err
		}
		return nodes, nil
	case strings.HasPrefix(key, "node:"):
		node := new(models.Node)
		if err := json.Unmarshal(raw, node); err != nil {
			return nil, err
		}
		return node, nil
	default:
		var data interface{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
		return data, nil
	}
}

// ============================================
// In-Memory Operations (Fallback)
// ============================================

func (cs *CacheService) setInMemory(key string, data interface{}, ttl time.Duration) {
	item := &CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
	cs.inMemoryStore.Store(key, item)
}

func (cs *CacheService) getInMemory(key string) (interface{}, bool) {
	val, ok := cs.inMemoryStore.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(*CacheItem)
	if time.Now().After(item.ExpiresAt) {
		return nil, false
	}

	return item.Data, true
}

func (cs *CacheService) getInMemoryWithStale(key string) (interface{}, bool, bool) {
	val, ok := cs.inMemoryStore.Load(key)
	if !ok {
		return nil, false, false
	}

	item := val.(*CacheItem)
	isStale := time.Now().After(item.ExpiresAt)
	return item.Data, isStale, true
}

// ============================================
// Typed Helper Methods
// ============================================

func (cs *CacheService) GetNetworkStats(allowStale bool) (*models.NetworkStats, bool, bool) {
	data, stale, found := cs.GetWithStale("stats")
	if !found {
		return nil, false, false
	}
	if !allowStale && stale {
		return nil, false, false
	}

	if stats, ok := data.(models.NetworkStats); ok {
		return &stats, stale, true
	}
	return nil, false, false
}

func (cs *CacheService) GetNodes(allowStale bool) ([]*models.Node, bool, bool) {
	data, stale, found := cs.GetWithStale("nodes")
	if !found {
		return nil, false, false
	}
	if !allowStale && stale {
		return nil, false, false
	}

	if nodes, ok := data.([]*models.Node); ok {
		return nodes, stale, true
	}
	return nil, false, false
}

func (cs *CacheService) GetNode(id string, allowStale bool) (*models.Node, bool, bool) {
	data, stale, found := cs.GetWithStale("node:" + id)
	if !found {
		return nil, false, false
	}
	if !allowStale && stale {
		return nil, false, false
	}

	if node, ok := data.(*models.Node); ok {
		return node, stale, true
	}
	return nil, false, false
}

// ============================================
// Utility Methods
// ============================================

func (cs *CacheService) GetCacheMode() CacheMode {
	return cs.getMode()
}

// RedisClient exposes the underlying Redis connection for components that
// persist their own keys, nil when Redis is unavailable.
func (cs *CacheService) RedisClient() *redis.Client {
	if cs.getMode() != CacheModeRedis {
		return nil
	}
	return cs.redis
}

func (cs *CacheService) ClearCache() error {
	mode := cs.getMode()

	if mode == CacheModeRedis && cs.redis != nil {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 5*time.Second)
		defer cancel()

		iter := cs.redis.Scan(ctx, 0, "node:*", 0).Iterator()
		deleted := 0
		for iter.Next(ctx) {
			cs.redis.Del(ctx, iter.Val())
			deleted++
		}

		cs.redis.Del(ctx, "stats", "nodes")
		log.Printf("Redis cache cleared (%d node keys deleted)", deleted)
	}

	cs.inMemoryStore = sync.Map{}
	log.Println("In-memory cache cleared")

	return nil
}

// GetCacheStats reports the active mode and key counts for the admin
// endpoint.
func (cs *CacheService) GetCacheStats() map[string]interface{} {
	mode := cs.getMode()

	inMemCount := 0
	cs.inMemoryStore.Range(func(_, _ interface{}) bool {
		inMemCount++
		return true
	})

	stats := map[string]interface{}{
		"mode":           string(mode),
		"redis_enabled":  cs.cfg.Redis.Enabled,
		"in_memory_keys": inMemCount,
	}

	if mode == CacheModeRedis && cs.redis != nil {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
		defer cancel()

		if dbSize, err := cs.redis.DBSize(ctx).Result(); err == nil {
			stats["redis_keys"] = dbSize
		}
	}

	return stats
}
