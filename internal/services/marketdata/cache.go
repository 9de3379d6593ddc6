package marketdata

import (
	"sync"
	"time"

	"github.com/ecoprohq/ecopro/internal/models"
)

// snapshotCache is a single-slot TTL cache for the default market
// snapshot. Only the no-watchlist snapshot is cached: custom watchlists
// vary per user and always hit the source.
type snapshotCache struct {
	mu       sync.Mutex
	snapshot *models.MarketSnapshot
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func newSnapshotCache(ttl time.Duration, now func() time.Time) *snapshotCache {
	if now == nil {
		now = time.Now
	}
	return &snapshotCache{ttl: ttl, now: now}
}

// get returns the cached snapshot when it is still fresh.
func (c *snapshotCache) get() (*models.MarketSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// put replaces the cached snapshot.
func (c *snapshotCache) put(snapshot *models.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.storedAt = c.now()
}
