package cache

import (
	"strings"
	"time"

	"copilot-usage-dashboard/config"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// Cache is the in-memory layer for computed aggregates and report bundles.
// It is injected into handlers rather than accessed as a module singleton
// so tests can substitute a disabled instance.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// Key builds a cache key from its ordered parts, e.g.
// Key("usage", "organization", "acme", "2026-08-01", "2026-08-28").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// New creates a cache sized by the given configuration.
func New(cfg config.CacheConfig) (*Cache, error) {
	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize), // keys tracked for admission frequency
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_size_mb", cfg.MaxSizeMB).
		Int("ttl_seconds", cfg.TTLSeconds).
		Msg("Report cache initialized")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Get retrieves a cached value. Returns (nil, false) on a miss or when the
// cache is disabled.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	return c.client.Get(key)
}

// Set stores a value with the configured TTL. cost approximates the memory
// footprint of the item in bytes.
func (c *Cache) Set(key string, value interface{}, cost int64) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.SetWithTTL(key, value, cost, c.ttl)
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(key)
}

// Clear drops every cached entry. Ristretto has no keyed iteration, so
// pattern invalidation of the in-memory layer degrades to a full clear;
// the redis response layer handles per-pattern deletes.
func (c *Cache) Clear() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Clear()
}

// Close cleanly shuts down the cache.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
		log.Info().Msg("Report cache closed")
	}
}

// MetricsSnapshot is a point-in-time view of cache performance.
type MetricsSnapshot struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	KeysAdded   uint64  `json:"keys_added"`
	KeysEvicted uint64  `json:"keys_evicted"`
	CostAdded   uint64  `json:"cost_added"`
	CostEvicted uint64  `json:"cost_evicted"`
	HitRatio    float64 `json:"hit_ratio"`
	TTLSeconds  int     `json:"ttl_seconds"`
}

// GetMetricsSnapshot returns current cache metrics.
func (c *Cache) GetMetricsSnapshot() MetricsSnapshot {
	if c == nil || c.client == nil || c.client.Metrics == nil {
		return MetricsSnapshot{}
	}

	m := c.client.Metrics
	hits := m.Hits()
	misses := m.Misses()

	hitRatio := 0.0
	if total := hits + misses; total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:        hits,
		Misses:      misses,
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		CostAdded:   m.CostAdded(),
		CostEvicted: m.CostEvicted(),
		HitRatio:    hitRatio,
		TTLSeconds:  int(c.ttl.Seconds()),
	}
}
