package limiter

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is the per-process fallback. Windows are aligned to the epoch in whole
// seconds; a request in a newer window replaces the stored one.
type MemoryCounter struct {
	mu         sync.Mutex
	entries    map[string]windowEntry
	staleAfter time.Duration
	now        func() time.Time
}

type windowEntry struct {
	count       int64
	windowStart int64 // unix seconds
	window      int64 // seconds
}

func NewMemoryCounter(staleAfter time.Duration) *MemoryCounter {
	if staleAfter <= 0 {
		staleAfter = DefaultConfig().StaleAfter
	}
	return &MemoryCounter{
		entries:    make(map[string]windowEntry),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (c *MemoryCounter) IncrementAndCheck(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	secs := int64(window / time.Second)
	if secs <= 0 {
		secs = 1
	}
	now := c.now().Unix()
	start := now - now%secs

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && e.windowStart == start {
		e.count++
	} else {
		e = windowEntry{count: 1, windowStart: start, window: secs}
	}
	c.entries[key] = e
	return Decision{Allowed: e.count <= int64(limit), Count: e.count}, nil
}

// Sweep drops windows that started more than max(staleAfter, 2*window) before now and
// returns how many were removed.
func (c *MemoryCounter) Sweep(now time.Time) int {
	stale := int64(c.staleAfter / time.Second)
	ts := now.Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.windowStart < ts-max(stale, 2*e.window) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live windows.
func (c *MemoryCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
