// Package query caches fetch results by key, in the manner of a UI query
// library: a value is reused while fresh, concurrent loads of the same key
// share one call, and failures are never stored.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a fetched value is served without refetching.
const DefaultStaleTime = 30 * time.Second

// Key identifies a query, most general part first, e.g. {"stockDetails", origin, ticker}.
type Key []string

func (k Key) id() string { return strings.Join(k, "\x1f") }

// HasPrefix reports whether k starts with every part of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
}

// Cache is safe for concurrent use. A nil *Cache disables caching.
type Cache struct {
	staleTime time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group
}

// New returns a cache serving values for staleTime after they were fetched.
// A zero staleTime only de-duplicates concurrent loads.
func New(staleTime time.Duration) *Cache {
	return &Cache{
		staleTime: staleTime,
		now:       time.Now,
		entries:   make(map[string]entry),
	}
}

// Fetch returns the fresh cached value for key or loads it with fn.
// The shared load is not cancelled when one waiting caller gives up; each
// caller still returns as soon as its own ctx is done.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil {
		return fn(ctx)
	}
	id := key.id()
	if v, ok := c.lookup(id); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	ch := c.group.DoChan(id, func() (any, error) {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(id, key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache) lookup(id string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(id string, key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry{key: append(Key(nil), key...), value: v, fetchedAt: c.now()}
}

// Invalidate drops every entry whose key starts with prefix and returns how
// many were dropped. An empty prefix clears the cache.
func (c *Cache) Invalidate(prefix ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
			n++
		}
	}
	return n
}
