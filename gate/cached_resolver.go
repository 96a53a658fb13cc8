package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedResolver keeps resolved profiles for a TTL. Concurrent misses for
// the same user share one lookup. Unknown users (nil profiles) are not
// cached so a freshly registered user is picked up on the next request.
type CachedResolver[U comparable] struct {
	inner  ProfileResolver[U]
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu        sync.RWMutex
	cache     map[U]cacheEntry
	nextPrune time.Time
	// gen counts invalidations; a lookup that started before one is
	// returned but not stored.
	gen uint64
}

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		cache: make(map[U]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Resolve returns the cached profile of user or loads it.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	r.mu.RLock()
	entry, ok := r.cache[user]
	r.mu.RUnlock()
	if ok && r.now().Before(entry.expiresAt) {
		return entry.profile, nil
	}

	v, err, _ := r.flight.Do(fmt.Sprint(user), func() (any, error) {
		r.mu.RLock()
		gen := r.gen
		r.mu.RUnlock()
		p, err := r.inner.Resolve(ctx, user)
		if err != nil || p == nil {
			return p, err
		}
		r.store(user, p, gen)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(Profile)
	return p, nil
}

func (r *CachedResolver[U]) store(user U, p Profile, gen uint64) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.cache[user] = cacheEntry{profile: p, expiresAt: now.Add(r.ttl)}
	if now.Before(r.nextPrune) {
		return
	}
	for u, e := range r.cache {
		if !now.Before(e.expiresAt) {
			delete(r.cache, u)
		}
	}
	r.nextPrune = now.Add(r.ttl)
}

// Invalidate drops user from the cache. UserAdmin calls it whenever roles,
// approval or menu access of user change.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.cache, user)
	r.gen++
	r.mu.Unlock()
	r.flight.Forget(fmt.Sprint(user))
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[U]cacheEntry)
	r.gen++
	r.mu.Unlock()
}

// Len reports the number of cached profiles, expired ones included.
func (r *CachedResolver[U]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
