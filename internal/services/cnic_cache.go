package services

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CNICCache is the single process-wide view of every CNIC in the store,
// across both locations. Readers get a snapshot; Refresh replaces it whole.
type CNICCache struct {
	source CNICSource

	mu          sync.RWMutex
	known       map[string]struct{}
	refreshedAt time.Time
}

func NewCNICCache(source CNICSource) *CNICCache {
	return &CNICCache{
		source: source,
		known:  map[string]struct{}{},
	}
}

// Refresh reloads the set from the store. On failure the previous snapshot is
// kept.
func (cache *CNICCache) Refresh(ctx context.Context) error {
	cnics, err := cache.source.SelectCNICs(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(cnics))
	for _, cnic := range cnics {
		if trimmed := strings.TrimSpace(cnic); trimmed != "" {
			known[trimmed] = struct{}{}
		}
	}

	cache.mu.Lock()
	cache.known = known
	cache.refreshedAt = time.Now()
	cache.mu.Unlock()
	return nil
}

func (cache *CNICCache) Contains(cnic string) bool {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	_, ok := cache.known[strings.TrimSpace(cnic)]
	return ok
}

// Snapshot returns a copy that callers may keep and mutate.
func (cache *CNICCache) Snapshot() map[string]struct{} {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	copied := make(map[string]struct{}, len(cache.known))
	for cnic := range cache.known {
		copied[cnic] = struct{}{}
	}
	return copied
}

func (cache *CNICCache) Len() int {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return len(cache.known)
}

func (cache *CNICCache) RefreshedAt() time.Time {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	return cache.refreshedAt
}
