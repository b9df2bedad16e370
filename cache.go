package folio

import (
	"sync"
	"time"
)

// ContentCache holds the current Collection and reloads it from disk once
// the TTL has passed. A zero TTL loads once and never expires.
type ContentCache struct {
	// OnReload runs under the write lock after every successful load. An
	// error rejects the new collection.
	OnReload func(*Collection) error
	// OnError receives reload failures while a previous collection is still
	// being served.
	OnError func(error)

	mu      sync.RWMutex
	current *Collection
	fetched time.Time
	ttl     time.Duration
	load    LoadFunc
}

// NewContentCache creates a ContentCache backed by load.
func NewContentCache(load LoadFunc, ttl time.Duration) *ContentCache {
	return &ContentCache{load: load, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	if c.current == nil {
		return false
	}
	return c.ttl == 0 || time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *ContentCache) reload() error {
	if c.valid() {
		return nil
	}
	col, err := c.load()
	if err != nil {
		return err
	}
	if c.OnReload != nil {
		if err := c.OnReload(col); err != nil {
			return err
		}
	}
	c.current = col
	c.fetched = time.Now()
	return nil
}

// Collection returns the cached collection after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
// When a reload fails but an older collection exists, the older one is
// returned and retried after another TTL.
func (c *ContentCache) Collection() (*Collection, error) {
	c.mu.RLock()
	if c.valid() {
		col := c.current
		c.mu.RUnlock()
		return col, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.reload(); err != nil {
		if c.current == nil {
			return nil, err
		}
		c.fetched = time.Now()
		if c.OnError != nil {
			c.OnError(err)
		}
	}
	return c.current, nil
}
