package sekolah

import (
	"slices"
	"sync"
)

// ListCache keeps the full school listing per level for the lifetime of one session.
type ListCache interface {
	Get(jenis Jenis) ([]Summary, bool)
	Set(jenis Jenis, list []Summary)
	Clear()
}

type MemoryListCache struct {
	mu    sync.RWMutex
	lists map[Jenis][]Summary
}

var _ ListCache = (*MemoryListCache)(nil)

func NewMemoryListCache() *MemoryListCache {
	return &MemoryListCache{lists: make(map[Jenis][]Summary)}
}

func (c *MemoryListCache) Get(jenis Jenis) ([]Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list, ok := c.lists[jenis]
	return slices.Clone(list), ok
}

func (c *MemoryListCache) Set(jenis Jenis, list []Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[jenis] = slices.Clone(list)
}

func (c *MemoryListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.lists)
}
