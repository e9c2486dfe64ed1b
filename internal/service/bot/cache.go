package bot

import (
	"context"
	"sync"

	"github.com/iamasit07/gomoku/internal/domain"
)

// MemoryCache is an in-process MoveCache that forgets the oldest entry
// once it holds capacity positions.
type MemoryCache struct {
	mu       sync.Mutex
	entries  map[string]domain.Point
	order    []string
	capacity int
}

func NewMemoryCache(capacity int) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCache{
		entries:  make(map[string]domain.Point, capacity),
		capacity: capacity,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[key]
	return p, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, move domain.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = move
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
