package meta

import (
	"context"
	"sync"
)

// Cache stores resolved doctype metadata between requests. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns a cached doctype, or false if absent.
	Get(ctx context.Context, name string) (*DocType, bool)

	// Set stores a doctype.
	Set(ctx context.Context, dt *DocType)

	// Invalidate removes a doctype from the cache.
	Invalidate(ctx context.Context, name string)
}

// MemoryCache is the default in-process cache.
type MemoryCache struct {
	mu       sync.RWMutex
	doctypes map[string]*DocType
}

// NewMemoryCache creates a new empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{doctypes: make(map[string]*DocType)}
}

func (c *MemoryCache) Get(_ context.Context, name string) (*DocType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dt, ok := c.doctypes[name]
	if !ok {
		return nil, false
	}
	// Callers annotate descriptors in place during layout resolution, so
	// hand out copies, never the cached tree itself.
	return dt.Clone(), true
}

func (c *MemoryCache) Set(_ context.Context, dt *DocType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doctypes[dt.Name] = dt.Clone()
}

func (c *MemoryCache) Invalidate(_ context.Context, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.doctypes, name)
}
