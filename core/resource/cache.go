package resource

import (
	"net/url"
	"strings"
	"sync"
)

// Cache is a small query cache keyed by resource name + encoded params.
// Mutations invalidate by resource prefix, which is the explicit
// cache-invalidation contract every store mutation declares against.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// Key builds the cache key for one query. Nested collection paths (e.g.
// /courses/7/chapters) key separately from the root path.
func Key(name, path string, params url.Values) string {
	return name + ":" + path + "?" + params.Encode()
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok
}

func (c *Cache) Put(key string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
}

// Invalidate drops every cached query of the named resource.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := name + ":"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Flush drops everything; used on logout.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}
