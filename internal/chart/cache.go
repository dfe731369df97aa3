package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache memoizes parsed charts keyed by the checksum of their text. It is
// caller-owned: nothing in this package holds a process-wide cache, and
// invalidation is explicit.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Song
}

// NewCache returns an empty chart cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Song)}
}

// Key derives the cache identity of a chart text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Parse returns the cached song for text, parsing and storing it on a miss.
func (c *Cache) Parse(text string) *Song {
	key := Key(text)

	c.mu.RLock()
	song, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return song
	}

	song = Parse(text)
	c.mu.Lock()
	c.entries[key] = song
	c.mu.Unlock()
	return song
}

// Invalidate drops a single cached chart.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every cached chart.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Song)
	c.mu.Unlock()
}

// Len reports the number of cached charts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
