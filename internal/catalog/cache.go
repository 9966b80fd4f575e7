package catalog

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultFreshFor keeps a merged catalog hot for an hour.
	DefaultFreshFor = time.Hour
	// DefaultStaleFor tolerates serving a stale copy for a day while a
	// background refresh runs.
	DefaultStaleFor = 24 * time.Hour
)

// Cache wraps Load with a fresh/stale-while-revalidate policy. It is the
// only long-lived in-process state in the server.
type Cache struct {
	Dir      string
	FreshFor time.Duration
	StaleFor time.Duration

	mu         sync.Mutex
	current    *Result
	fetchedAt  time.Time
	refreshing bool

	now func() time.Time // test hook
}

func NewCache(dir string) *Cache {
	return &Cache{Dir: dir, FreshFor: DefaultFreshFor, StaleFor: DefaultStaleFor, now: time.Now}
}

// Get returns the merged catalog. Fresh copies are returned as-is; a
// stale copy inside the tolerance window is returned immediately while
// one background refresh runs; anything older reloads synchronously.
func (c *Cache) Get() (*Result, error) {
	c.mu.Lock()
	age := c.now().Sub(c.fetchedAt)
	if c.current != nil && age < c.FreshFor {
		res := c.current
		c.mu.Unlock()
		return res, nil
	}
	if c.current != nil && age < c.FreshFor+c.StaleFor {
		res := c.current
		if !c.refreshing {
			c.refreshing = true
			go c.refresh()
		}
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()
	return c.reload()
}

// reload loads synchronously and stores the result.
func (c *Cache) reload() (*Result, error) {
	res, err := Load(c.Dir)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.current = res
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return res, nil
}

func (c *Cache) refresh() {
	res, err := Load(c.Dir)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
	if err != nil {
		// Keep serving the stale copy; the next window retries.
		zap.L().Error("catalog refresh failed", zap.Error(err))
		return
	}
	c.current = res
	c.fetchedAt = c.now()
}
