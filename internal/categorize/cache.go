package categorize

import (
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
)

// cacheEntry represents a cached categorization.
type cacheEntry struct {
	expiry   time.Time
	category model.Category
}

// categoryCache provides thread-safe caching of categorizations keyed by
// normalized description. Expired entries are dropped on access.
type categoryCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.Mutex
}

// newCategoryCache creates a cache with the given TTL. A negative TTL
// disables caching.
func newCategoryCache(ttl time.Duration) *categoryCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &categoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}

// get retrieves a category if it exists and hasn't expired.
func (c *categoryCache) get(description string) (model.Category, bool) {
	if c.ttl < 0 {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(description)
	entry, exists := c.entries[key]
	if !exists {
		return "", false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, key)
		return "", false
	}
	return entry.category, true
}

// set stores a category in the cache.
func (c *categoryCache) set(description string, category model.Category) {
	if c.ttl < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(description)] = cacheEntry{
		category: category,
		expiry:   c.now().Add(c.ttl),
	}
}

// size returns the number of entries in the cache.
func (c *categoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
