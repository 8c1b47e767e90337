package sheet

import (
	"context"
	"sync"
	"time"
)

// CachedSource keeps the last successful fetch of src for ttl.
// Failures are never cached.
type CachedSource struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	rows    []Record
	expires time.Time
}

// NewCachedSource wraps src. A non-positive ttl disables caching.
func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, ttl: ttl, now: time.Now}
}

// Fetch returns cached rows while fresh, otherwise fetches from the wrapped source.
func (c *CachedSource) Fetch(ctx context.Context) ([]Record, error) {
	if c.ttl <= 0 {
		return c.src.Fetch(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rows != nil && c.now().Before(c.expires) {
		return append([]Record(nil), c.rows...), nil
	}

	rows, err := c.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Record{}
	}
	c.rows = rows
	c.expires = c.now().Add(c.ttl)
	return append([]Record(nil), rows...), nil
}

// Invalidate drops the cached rows.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.rows = nil
	c.mu.Unlock()
}
