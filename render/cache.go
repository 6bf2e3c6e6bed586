// ABOUTME: In-memory render cache that wraps any Renderer with sha256-keyed caching.
// ABOUTME: Supports TTL-based expiry, concurrent access, and manual cache clearing.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// cacheEntry holds a single cached render result with its creation timestamp.
type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache wraps a Renderer with an in-memory cache. It is itself a
// Renderer. Cache keys are derived from the sha256 hash of the DOT content
// combined with the format. Entries expire after the configured TTL.
type RenderCache struct {
	next    Renderer
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*cacheEntry
	mu      sync.RWMutex
}

// NewRenderCache creates a RenderCache wrapping next.
// Cached entries expire after the specified TTL duration.
func NewRenderCache(next Renderer, ttl time.Duration) *RenderCache {
	return &RenderCache{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// Render returns a cached result when available and not expired, and
// otherwise delegates to the wrapped Renderer. Errors are never cached.
func (c *RenderCache) Render(ctx context.Context, dotText []byte, format Format) ([]byte, error) {
	key := cacheKey(dotText, format)

	// Check cache under read lock
	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		if c.now().Sub(entry.createdAt) < c.ttl {
			data := entry.data
			c.mu.RUnlock()
			return data, nil
		}
	}
	c.mu.RUnlock()

	// Cache miss or expired: render
	data, err := c.next.Render(ctx, dotText, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{
		data:      data,
		createdAt: c.now(),
	}
	c.mu.Unlock()

	return data, nil
}

// Len returns the number of entries currently in the cache (including expired ones).
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired entries and returns how many were removed.
func (c *RenderCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if c.now().Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear removes all entries from the cache.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// cacheKey generates a deterministic cache key from DOT text content and output format.
func cacheKey(dotText []byte, format Format) string {
	return fmt.Sprintf("%x:%s", sha256.Sum256(dotText), format)
}
