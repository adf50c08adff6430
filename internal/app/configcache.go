package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/queuebot/internal/ports/secondary"
)

// ConfigCache is a read-through, per-server cache over the configuration
// repository. Writes go through AdminService, which invalidates the entry;
// whole records are replaced on refresh, so readers never see a partially
// updated configuration. A brief staleness window between a write and the
// next read is acceptable.
type ConfigCache struct {
	repo secondary.ServerConfigRepository

	mu      sync.RWMutex
	entries map[string]*secondary.ServerConfigRecord
}

// NewConfigCache creates a cache backed by the given repository.
func NewConfigCache(repo secondary.ServerConfigRepository) *ConfigCache {
	return &ConfigCache{
		repo:    repo,
		entries: make(map[string]*secondary.ServerConfigRecord),
	}
}

// Get returns the server's configuration, loading it on first access.
func (c *ConfigCache) Get(ctx context.Context, serverID string) (*secondary.ServerConfigRecord, error) {
	c.mu.RLock()
	record, ok := c.entries[serverID]
	c.mu.RUnlock()
	if ok {
		return record, nil
	}

	record, err := c.repo.Get(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	c.mu.Lock()
	c.entries[serverID] = record
	c.mu.Unlock()

	return record, nil
}

// Invalidate drops the cached entry so the next read refetches it. Called
// only by the administrative command handlers after a write.
func (c *ConfigCache) Invalidate(serverID string) {
	c.mu.Lock()
	delete(c.entries, serverID)
	c.mu.Unlock()
}
