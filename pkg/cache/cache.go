// Package cache provides the key/value stores used for read-through caching
// of catalog lookups. Values are stored JSON-encoded.
//
// Two stores exist: Redis, used when REDIS_ADDR is configured, and Memory,
// an in-process fallback that also backs the tests.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalogapi/pkg/metrics"
)

// Store is implemented by every cache driver.
type Store interface {
	// Get unmarshals the value under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) bool
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process Store with per-key expiry.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) bool {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	if e.expired(m.now()) {
		m.mu.Lock()
		// Re-check: a Set may have refreshed the key.
		if cur, ok := m.items[key]; ok && cur.expired(m.now()) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return true
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys, including expired keys not yet read.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
