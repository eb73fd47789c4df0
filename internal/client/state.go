package client

import (
	"sync"
)

// Cache is a capped client-side collection cache. Transitions are
// reducer-style: replace the collection, patch one item by id with a full
// object, or remove by id. Callers construct and inject their own caches;
// there are no package globals.
type Cache[T any] struct {
	mu    sync.Mutex
	max   int
	key   func(T) string
	items []T
}

// NewCache builds a cache holding at most max items, keyed by the given
// id extractor.
func NewCache[T any](max int, key func(T) string) *Cache[T] {
	if max < 1 {
		max = 1
	}
	return &Cache[T]{max: max, key: key}
}

// Replace swaps the whole collection, truncating to the cap.
func (c *Cache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(items) > c.max {
		items = items[:c.max]
	}
	c.items = make([]T, len(items))
	copy(c.items, items)
}

// PatchByID replaces the cached item with the same id. The whole object
// is swapped; there are no in-place edits.
func (c *Cache[T]) PatchByID(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.key(item)
	for i := range c.items {
		if c.key(c.items[i]) == id {
			c.items[i] = item
			return true
		}
	}
	return false
}

// Prepend inserts a new item at the front, evicting from the back when
// the cap is hit.
func (c *Cache[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	if len(c.items) > c.max {
		c.items = c.items[:c.max]
	}
}

// RemoveByID drops the cached item with the given id.
func (c *Cache[T]) RemoveByID(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.key(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a copy of the cached collection.
func (c *Cache[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the cached item count.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
