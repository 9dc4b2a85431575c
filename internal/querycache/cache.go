// Package querycache is a keyed fetch cache: values are reused while younger
// than a per-call stale time, and concurrent fetches of one key share a
// single request.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/newhook/sqwatch/internal/logging"
)

const (
	// DefaultExpiration is how long an entry survives in memory at all.
	// Freshness is decided per fetch, see Fetch.
	DefaultExpiration = 5 * time.Minute
	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = 10 * time.Minute
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache holds values of one type.
type Cache[V any] struct {
	name  string
	cache *gocache.Cache
	group singleflight.Group
	now   func() time.Time
}

// New creates a cache. name only appears in logs.
func New[V any](name string, expiration, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		name:  name,
		cache: gocache.New(expiration, cleanupInterval),
		now:   time.Now,
	}
}

// Key joins parts into a cache key. Empty parts keep their slot, so
// Key("p", "", "") and Key("p") are different keys.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get returns a cached value regardless of its age.
func (c *Cache[V]) Get(_ context.Context, key string) (V, bool) {
	e, ok := c.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value as freshly fetched.
func (c *Cache[V]) Set(_ context.Context, key string, value V) {
	c.cache.SetDefault(key, entry[V]{value: value, fetchedAt: c.now()})
}

func (c *Cache[V]) lookup(key string) (entry[V], bool) {
	raw, ok := c.cache.Get(key)
	if !ok {
		return entry[V]{}, false
	}
	e, ok := raw.(entry[V])
	return e, ok
}

// Fetch returns the cached value for key when it is younger than staleTime,
// and otherwise calls fn. Concurrent callers for the same key wait for one
// shared call to fn. Errors are returned to every waiter and never cached.
func (c *Cache[V]) Fetch(ctx context.Context, key string, staleTime time.Duration, fn func(context.Context) (V, error)) (V, error) {
	if e, ok := c.lookup(key); ok && c.now().Sub(e.fetchedAt) < staleTime {
		return e.value, nil
	}

	// The call is shared by every waiter, so it must outlive the caller
	// that started it. Each waiter still gives up on its own ctx.
	ch := c.group.DoChan(key, func() (any, error) {
		value, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, value)
		return value, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		var zero V
		return zero, fmt.Errorf("%s %s: %w", c.name, key, ctx.Err())
	}
	if res.Err != nil {
		var zero V
		return zero, fmt.Errorf("%s %s: %w", c.name, key, res.Err)
	}
	if res.Shared {
		logging.Debug("query deduplicated", "cache", c.name, "key", key)
	}
	return res.Val.(V), nil
}

// Invalidate drops one key.
func (c *Cache[V]) Invalidate(key string) {
	c.cache.Delete(key)
}

// InvalidatePrefix drops every key starting with prefix.
func (c *Cache[V]) InvalidatePrefix(prefix string) {
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Len returns the number of entries, expired ones included until cleanup.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
