// Package store is the typed in-memory key/value store behind the set/get
// builtins.
package store

import (
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/lineconsole/internal/log"
)

const (
	// NoExpiration keeps an entry until it is deleted.
	NoExpiration = gocache.NoExpiration
	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = time.Minute
)

// Store holds values of type V by string key.
type Store[V any] interface {
	Get(key string) (V, bool)
	// GetWithExpiration also returns the expiry, zero when the entry never
	// expires.
	GetWithExpiration(key string) (V, time.Time, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(keys ...string) int
	Keys() []string
	Flush()
}

// Memory is a Store backed by go-cache. Safe for concurrent use.
type Memory[V any] struct {
	name   string
	cache  *gocache.Cache
	logger *log.Logger
}

// NewMemory creates a store. name identifies it in logs.
func NewMemory[V any](name string, cleanupInterval time.Duration, logger *log.Logger) *Memory[V] {
	return &Memory[V]{
		name:   name,
		cache:  gocache.New(NoExpiration, cleanupInterval),
		logger: logger,
	}
}

// Get returns the value stored under key.
func (m *Memory[V]) Get(key string) (V, bool) {
	v, _, ok := m.GetWithExpiration(key)
	return v, ok
}

// GetWithExpiration returns the value and its expiry.
func (m *Memory[V]) GetWithExpiration(key string) (V, time.Time, bool) {
	var zero V

	value, expires, found := m.cache.GetWithExpiration(key)
	if !found {
		m.logger.Debug(log.CatBuiltin, "store miss", "store", m.name, "key", key)
		return zero, time.Time{}, false
	}

	v, ok := value.(V)
	if !ok {
		m.logger.Error(log.CatBuiltin, "wrong type in store", "store", m.name, "key", key)
		return zero, time.Time{}, false
	}
	return v, expires, true
}

// Set stores value under key. ttl <= 0 never expires.
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = NoExpiration
	}
	m.cache.Set(key, value, ttl)
}

// Delete removes keys and reports how many existed.
func (m *Memory[V]) Delete(keys ...string) int {
	n := 0
	for _, key := range keys {
		if _, found := m.cache.Get(key); found {
			n++
		}
		m.cache.Delete(key)
	}
	return n
}

// Keys returns the live keys, sorted.
func (m *Memory[V]) Keys() []string {
	items := m.cache.Items() // excludes expired entries
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Flush removes everything.
func (m *Memory[V]) Flush() {
	m.cache.Flush()
}
