// Package cache is a query cache keyed by (entity, scope). Every entry is
// tagged with its entity and mutations drop whole entities explicitly.
package cache

import (
	"sync"
	"time"
)

// Cache tags shared by services that read across tables.
const (
	TagRecycleBin     = "recycle_bin"
	TagMergedInvoices = "merged_invoices"
	TagDashboard      = "dashboard"
)

// Key identifies a cached query: the entity it reads and its parameters.
type Key struct {
	Entity string
	Scope  string
}

func (k Key) String() string {
	if k.Scope == "" {
		return k.Entity
	}
	return k.Entity + ":" + k.Scope
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is safe for concurrent use. A nil *Cache never stores anything.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[Key]entry
	// gens counts invalidations per entity; Load refuses to store a value
	// read before the latest one.
	gens map[string]uint64
	now  func() time.Time
}

// New returns a cache whose entries expire after ttl. A ttl <= 0 keeps
// entries until they are invalidated.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[Key]entry), gens: make(map[string]uint64), now: time.Now}
}

// Get returns the cached value for k if present and fresh.
func (c *Cache) Get(k Key) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, k)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores v under k.
func (c *Cache) Set(k Key, v any) {
	if c == nil {
		return
	}
	e := entry{value: v}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[k] = e
	c.mu.Unlock()
}

// Invalidate drops every entry of the given entities, whatever its scope.
func (c *Cache) Invalidate(entities ...string) {
	if c == nil || len(entities) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		drop[e] = struct{}{}
	}
	c.mu.Lock()
	for e := range drop {
		c.gens[e]++
	}
	for k := range c.entries {
		if _, ok := drop[k.Entity]; ok {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Generation returns the invalidation count of entity.
func (c *Cache) Generation(entity string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[entity]
}

// SetIfCurrent stores v under k unless k.Entity was invalidated since gen
// was read. It reports whether v was stored.
func (c *Cache) SetIfCurrent(k Key, v any, gen uint64) bool {
	if c == nil {
		return false
	}
	e := entry{value: v}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[k.Entity] != gen {
		return false
	}
	c.entries[k] = e
	return true
}

// Load returns the cached value for k or calls load and caches its result.
// Errors are not cached, and neither is a result read while k.Entity was
// being invalidated.
func Load[V any](c *Cache, k Key, load func() (V, error)) (V, error) {
	return LoadPartial(c, k, func() (V, bool, error) {
		v, err := load()
		return v, true, err
	})
}

// LoadPartial is Load for loaders that may return an incomplete value. The
// value is returned but only cached when load reports it complete.
func LoadPartial[V any](c *Cache, k Key, load func() (V, bool, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		if typed, ok := v.(V); ok {
			return typed, nil
		}
	}
	gen := c.Generation(k.Entity)
	v, complete, err := load()
	if err != nil {
		return v, err
	}
	if complete {
		c.SetIfCurrent(k, v, gen)
	}
	return v, nil
}
