// Package cache memoises expensive numeric results, such as estimated
// shows, that are asked for repeatedly while comparing discards.
package cache

import (
	"sync"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// entrySize is a rough per-entry cost of the map, key and value included.
const entrySize = 48

// DefaultMemoryFraction is the share of system memory New lets a cache use.
const DefaultMemoryFraction = 1.0 / 64

type loadFunc func() (float64, error)

// Cache is a goroutine-safe map from a 64-bit key to a value computed on
// first use. Loads for different keys may run concurrently; a key that is
// loaded by two goroutines at once is simply computed twice. When the
// cache holds its limit of entries it is emptied before the next insert.
type Cache struct {
	sync.Mutex
	objects    map[uint64]float64
	maxEntries int
	hits       uint64
	misses     uint64
}

// New returns a cache sized to DefaultMemoryFraction of system memory.
func New() *Cache {
	return NewWithLimit(limitForMemory(memory.TotalMemory(), DefaultMemoryFraction))
}

// NewWithLimit returns a cache holding at most maxEntries values.
func NewWithLimit(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{objects: make(map[uint64]float64), maxEntries: maxEntries}
}

func limitForMemory(total uint64, fraction float64) int {
	n := int(fraction * float64(total) / entrySize)
	if n < 1<<16 {
		// TotalMemory is 0 when it can't be determined.
		n = 1 << 16
	}
	return n
}

// Get returns the value for key, calling load to compute it if needed.
// Errors are not cached.
func (c *Cache) Get(key uint64, load loadFunc) (float64, error) {
	c.Lock()
	if v, ok := c.objects[key]; ok {
		c.hits++
		c.Unlock()
		return v, nil
	}
	c.misses++
	c.Unlock()

	log.Debug().Uint64("key", key).Msg("loading into cache")
	v, err := load()
	if err != nil {
		return 0, err
	}
	c.Lock()
	if len(c.objects) >= c.maxEntries {
		log.Debug().Int("entries", len(c.objects)).Msg("cache full, clearing")
		c.objects = make(map[uint64]float64)
	}
	c.objects[key] = v
	c.Unlock()
	return v, nil
}

// Stats returns the hit and miss counts so far.
func (c *Cache) Stats() (hits, misses uint64) {
	c.Lock()
	defer c.Unlock()
	return c.hits, c.misses
}

func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.Lock()
	defer c.Unlock()
	c.objects = make(map[uint64]float64)
}
