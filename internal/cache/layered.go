package cache

import "time"

// LayeredCache reads through a memory layer backed by disk. Hits that
// come off disk are promoted so the rest of the run answers from memory.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache builds the standard two-layer cache used by the tracker.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	val, found := c.disk.Get(key)
	if !found {
		return nil, false
	}

	// Promote with the memory layer's default TTL
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes the disk layer first; the memory layer is best-effort on top
// of it, so a failed disk write surfaces while memory never blocks one.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	err := c.disk.Set(key, value, ttl)
	_ = c.memory.Set(key, value, ttl)
	return err
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
