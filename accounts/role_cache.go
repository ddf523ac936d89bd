package accounts

import (
	"slices"
	"sync"
)

// RoleCache holds the role lookup list for the lifetime of one session.
// It lives in process memory, apart from the durable session store.
type RoleCache interface {
	Get() ([]Role, bool)
	Set(roles []Role)
	Clear()
}

type MemoryRoleCache struct {
	mu     sync.RWMutex
	roles  []Role
	loaded bool
}

var _ RoleCache = (*MemoryRoleCache)(nil)

func NewMemoryRoleCache() *MemoryRoleCache {
	return &MemoryRoleCache{}
}

func (c *MemoryRoleCache) Get() ([]Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.roles), c.loaded
}

func (c *MemoryRoleCache) Set(roles []Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = slices.Clone(roles)
	c.loaded = true
}

func (c *MemoryRoleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles = nil
	c.loaded = false
}
