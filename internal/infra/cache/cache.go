// Package cache provides fast game snapshot reads (not the source of truth).
// T012: The database holds the authoritative history; this layer only saves
// the round-trip for status polls and reconnecting clients.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Client is an interface for key-value cache operations.
// This allows for easy mocking in tests and swapping Redis in later.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = fmt.Errorf("cache miss")

// MemoryClient is the in-process Client used by default. Entries expire
// lazily on read.
type MemoryClient struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryClient creates an empty in-memory cache client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: make(map[string]memoryEntry)}
}

func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
		str = string(data)
	}

	entry := memoryEntry{value: str}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

// SnapshotCache provides fast access to per-game state snapshots.
type SnapshotCache struct {
	client     Client
	expiration time.Duration
}

// NewSnapshotCache creates a snapshot cache with the given TTL.
func NewSnapshotCache(client Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SnapshotCache{client: client, expiration: ttl}
}

// SetSnapshot caches a game snapshot as JSON.
func (c *SnapshotCache) SetSnapshot(ctx context.Context, gameID string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.Set(ctx, c.gameKey(gameID), data, c.expiration)
}

// GetSnapshot retrieves a cached snapshot into out. Returns ErrCacheMiss
// when the game is not cached.
func (c *SnapshotCache) GetSnapshot(ctx context.Context, gameID string, out interface{}) error {
	data, err := c.client.Get(ctx, c.gameKey(gameID))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return nil
}

// Invalidate removes the cached snapshot for a game.
func (c *SnapshotCache) Invalidate(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, c.gameKey(gameID))
}

func (c *SnapshotCache) gameKey(gameID string) string {
	return fmt.Sprintf("game:%s:snapshot", gameID)
}
