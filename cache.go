package inkwell

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/inkwell/content"
)

// SnapshotCache holds the most recently loaded content snapshot for ttl.
// A zero ttl disables caching: every Get re-reads the source.
type SnapshotCache struct {
	mu      sync.RWMutex
	snap    *content.Snapshot
	fetched time.Time
	ttl     time.Duration
	src     content.Source
	now     func() time.Time
}

// NewSnapshotCache creates a SnapshotCache backed by src.
func NewSnapshotCache(src content.Source, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{src: src, ttl: ttl, now: time.Now}
}

func (c *SnapshotCache) valid() bool {
	return c.snap != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Get returns a fresh-enough snapshot. It tries a read lock first and only
// takes the write lock when a reload is needed.
func (c *SnapshotCache) Get(ctx context.Context) (*content.Snapshot, error) {
	if c.ttl <= 0 {
		return content.Load(ctx, c.src)
	}

	c.mu.RLock()
	if c.valid() {
		snap := c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.snap, nil
	}
	snap, err := content.Load(ctx, c.src)
	if err != nil {
		return nil, err
	}
	c.snap = snap
	c.fetched = c.now()
	return snap, nil
}
