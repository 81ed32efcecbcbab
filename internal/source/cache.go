package source

import (
	"context"
	"sync"
)

// DefaultCacheEntries is the cache size used when NewCache is given no limit.
const DefaultCacheEntries = 32

// Cache keeps decoded local files so repeated requests for the same path do
// not re-read and re-decode it.
//
// Cache is safe for concurrent use. It holds at most maxEntries images; when
// full, the entry loaded longest ago is dropped. Files changed on disk after
// loading are not noticed.
type Cache struct {
	mu         sync.RWMutex
	loader     *Loader
	maxEntries int
	entries    map[string]*Decoded
	order      []string // paths, oldest first
}

// NewCache creates an empty cache that loads misses through loader.
// maxEntries <= 0 selects DefaultCacheEntries.
func NewCache(loader *Loader, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{
		loader:     loader,
		maxEntries: maxEntries,
		entries:    make(map[string]*Decoded),
	}
}

// Load returns the decoded image at path, reading it on first use.
//
// The cache is keyed by the exact path string, so relative and absolute
// spellings of the same file are cached separately.
func (c *Cache) Load(ctx context.Context, path string) (*Decoded, error) {
	c.mu.RLock()
	if d, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return d, nil
	}
	c.mu.RUnlock()

	d, err := c.loader.Load(ctx, FileSource{Path: path})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded it meanwhile
	if existing, ok := c.entries[path]; ok {
		return existing, nil
	}
	for len(c.order) >= c.maxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[path] = d
	c.order = append(c.order, path)

	return d, nil
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evict removes a specific image from the cache by its path.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; !ok {
		return
	}
	delete(c.entries, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes all images from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Decoded)
	c.order = nil
	c.mu.Unlock()
}
