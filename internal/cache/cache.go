// Package cache is a request-keyed cache for list/detail reads.
// Entries are keyed by (resource family, encoded params) and stay
// fresh for a TTL; any successful mutation on a family invalidates
// every entry of that family, so the next read refetches.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resource families. One bucket per family, no per-row invalidation.
const (
	FamilyWarehouses = "warehouses"
	FamilyProducts   = "products"
	FamilyEntities   = "entities"
	FamilyAccounts   = "accounts"
	FamilySheets     = "inventory-sheets"
)

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "remote_cache_lookups_total",
	Help: "Cache lookups by resource family and outcome.",
}, []string{"family", "outcome"})

type entry struct {
	value    any
	storedAt time.Time
}

type Cache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	families map[string]map[string]entry
	now      func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:      ttl,
		families: make(map[string]map[string]entry),
		now:      time.Now,
	}
}

func (c *Cache) Get(family, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.families[family][key]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		lookups.WithLabelValues(family, "miss").Inc()
		return nil, false
	}
	lookups.WithLabelValues(family, "hit").Inc()
	return e.value, true
}

func (c *Cache) Set(family, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.families[family]
	if !ok {
		bucket = make(map[string]entry)
		c.families[family] = bucket
	}
	bucket[key] = entry{value: value, storedAt: c.now()}
}

// Invalidate drops every entry of one resource family. Called
// synchronously after each successful create/update/delete.
func (c *Cache) Invalidate(family string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.families, family)
}
