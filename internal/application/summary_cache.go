package application

import (
	"sync"
	"time"
)

// summaryCache stores recently computed dashboard summaries per owner to
// avoid re-running the aggregate queries on every landing-page hit while the
// owner's data remains unchanged.
type summaryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[int64]summaryCacheEntry
}

type summaryCacheEntry struct {
	summary   DashboardSummary
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration, maxEntries int, now func() time.Time) *summaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if now == nil {
		now = time.Now
	}
	return &summaryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[int64]summaryCacheEntry),
	}
}

func (c *summaryCache) Get(ownerID int64) (DashboardSummary, bool) {
	if c == nil {
		return DashboardSummary{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[ownerID]
	c.mu.RUnlock()
	if !ok {
		return DashboardSummary{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, ownerID)
		c.mu.Unlock()
		return DashboardSummary{}, false
	}
	return cloneSummary(entry.summary), true
}

func (c *summaryCache) Store(ownerID int64, summary DashboardSummary) {
	if c == nil {
		return
	}
	cloned := cloneSummary(summary)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[ownerID] = summaryCacheEntry{summary: cloned, expiresAt: expiry}
}

// Invalidate drops one owner's cached summary after a mutation.
func (c *summaryCache) Invalidate(ownerID int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, ownerID)
	c.mu.Unlock()
}

// InvalidateAll drops every cached summary; maintenance purges use this.
func (c *summaryCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[int64]summaryCacheEntry)
	c.mu.Unlock()
}

func (c *summaryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *summaryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneSummary(summary DashboardSummary) DashboardSummary {
	out := summary
	if len(summary.TodayEvents) > 0 {
		out.TodayEvents = make([]Event, len(summary.TodayEvents))
		copy(out.TodayEvents, summary.TodayEvents)
	}
	if len(summary.TodayTasks) > 0 {
		out.TodayTasks = make([]Task, len(summary.TodayTasks))
		copy(out.TodayTasks, summary.TodayTasks)
	}
	return out
}
