// Package cache is a tiny in-process TTL cache used to absorb repeated
// reads of cheap-to-stale values like the stats counters.
package cache

import (
	"sync"
	"time"
)

type Cache[T any] struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry[T]
}

type entry[T any] struct {
	val T
	exp time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache[T]{
		ttl: ttl,
		m:   make(map[string]entry[T]),
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	now := time.Now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return zero, false
	}

	return e.val, true
}

func (c *Cache[T]) Set(key string, val T) {
	c.mu.Lock()
	c.m[key] = entry[T]{val: val, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry[T])
	c.mu.Unlock()
}
