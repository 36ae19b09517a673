package catalog

import (
	"sync"
	"time"

	"github.com/andy/jobtrack/internal/domain"
)

// TTL is how long a cached catalog stays fresh.
const TTL = 5 * time.Minute

type cacheEntry struct {
	data      []domain.CatalogItem
	timestamp time.Time
}

// Cache holds one entry per catalog kind. It is constructed once per
// application session and handed to the fetch client; there is no
// package-level cache state.
type Cache struct {
	mu      sync.Mutex
	entries map[Kind]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Kind]cacheEntry)}
}

// get returns the cached data and its fetch time. Empty entries do not
// count as cached: a catalog that has never been fetched successfully
// has nothing worth falling back to.
func (c *Cache) get(kind Kind) ([]domain.CatalogItem, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[kind]
	if !ok || len(e.data) == 0 {
		return nil, time.Time{}, false
	}
	return e.data, e.timestamp, true
}

func (c *Cache) put(kind Kind, data []domain.CatalogItem, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[kind] = cacheEntry{data: data, timestamp: now}
}

func (c *Cache) invalidate(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, kind)
}
