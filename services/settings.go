package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Current settings schema version. Bump together with a migration step in
// migrateSettings when the stored shape changes.
const settingsVersion = 2

// Well-known settings keys served by the settings endpoints.
const (
	SettingBookmarks     = "bookmarks"
	SettingWidgetLayout  = "widget_layout"
	SettingNotifications = "notifications"
	SettingTheme         = "theme"
	SettingDismissals    = "dismissals"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingsBackend is the storage the settings store writes through. The
// store itself only deals in raw bytes; versioning lives in the envelope.
type SettingsBackend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// settingsEnvelope wraps every stored value with its schema version so old
// payloads can be migrated on read.
type settingsEnvelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// SettingsStore persists user preferences behind a pluggable backend.
type SettingsStore struct {
	backend SettingsBackend
}

func NewSettingsStore(backend SettingsBackend) *SettingsStore {
	return &SettingsStore{backend: backend}
}

// Get returns the stored value for key, migrated to the current schema
// version. Values written at a newer version than this build understands are
// treated as not found rather than misread.
func (s *SettingsStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var env settingsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("corrupt settings envelope for %q: %w", key, err)
	}

	if env.Version > settingsVersion {
		log.Printf("Setting %q written by a newer schema (v%d), ignoring", key, env.Version)
		return nil, ErrSettingNotFound
	}

	if env.Version < settingsVersion {
		migrated, err := migrateSettings(key, env.Version, env.Data)
		if err != nil {
			return nil, fmt.Errorf("migrating setting %q from v%d: %w", key, env.Version, err)
		}
		env.Data = migrated

		// Persist the migrated shape so the upgrade runs once per key
		if err := s.Set(ctx, key, env.Data); err != nil {
			log.Printf("Could not persist migrated setting %q: %v", key, err)
		}
	}

	return env.Data, nil
}

// Set stores value under key at the current schema version.
func (s *SettingsStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("setting %q: value is not valid JSON", key)
	}

	raw, err := json.Marshal(settingsEnvelope{Version: settingsVersion, Data: value})
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, key, raw)
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// migrateSettings upgrades a payload one schema step at a time until it
// reaches the current version.
func migrateSettings(key string, fromVersion int, data json.RawMessage) (json.RawMessage, error) {
	for v := fromVersion; v < settingsVersion; v++ {
		switch v {
		case 1:
			// v1 stored bookmarks as a plain id array; v2 keeps objects with
			// the id and when it was pinned.
			if key == SettingBookmarks {
				var ids []string
				if err := json.Unmarshal(data, &ids); err != nil {
					return nil, err
				}
				type bookmark struct {
					NodeID  string    `json:"nodeId"`
					AddedAt time.Time `json:"addedAt"`
				}
				marks := make([]bookmark, 0, len(ids))
				for _, id := range ids {
					marks = append(marks, bookmark{NodeID: id, AddedAt: time.Now()})
				}
				upgraded, err := json.Marshal(marks)
				if err != nil {
					return nil, err
				}
				data = upgraded
			}
		default:
			return nil, fmt.Errorf("no migration path from v%d", v)
		}
	}
	return data, nil
}

// MemorySettingsBackend keeps settings in process memory. It backs tests and
// deployments without Redis.
type MemorySettingsBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySettingsBackend() *MemorySettingsBackend {
	return &MemorySettingsBackend{values: make(map[string][]byte)}
}

func (m *MemorySettingsBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.values[key]
	if !ok {
		return nil, ErrSettingNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MemorySettingsBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemorySettingsBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// RedisSettingsBackend persists settings in Redis under a dedicated prefix so
// they survive restarts and cache flushes.
type RedisSettingsBackend struct {
	client *redis.Client
}

const settingsKeyPrefix = "settings:"

func NewRedisSettingsBackend(client *redis.Client) *RedisSettingsBackend {
	return &RedisSettingsBackend{client: client}
}

func (r *RedisSettingsBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, settingsKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSettingNotFound
	}
	return val, err
}

func (r *RedisSettingsBackend) Set(ctx context.Context, key string, value []byte) error {
	// Settings are durable preferences, no TTL
	return r.client.Set(ctx, settingsKeyPrefix+key, value, 0).Err()
}

func (r *RedisSettingsBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, settingsKeyPrefix+key).Err()
}
