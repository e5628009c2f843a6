package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paradewx/parade-weather/internal/climate"
)

// Memory is a thread-safe LRU implementation of climate.SeriesCache with a
// per-entry TTL. Eviction policy: bounded entry count, least recently used
// first; entries past the TTL are dropped on access. If maxEntries is <= 0
// it defaults to 128.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key      string
	series   climate.TimeSeries
	storedAt time.Time
	prev     *entry
	next     *entry
}

// NewMemory creates a Memory cache with the real clock.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return NewMemoryWithClock(maxEntries, ttl, clockwork.NewRealClock())
}

// NewMemoryWithClock creates a Memory cache with an injected time source
// so tests can advance time deterministically.
func NewMemoryWithClock(maxEntries int, ttl time.Duration, clock clockwork.Clock) *Memory {
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *Memory) Get(_ context.Context, key climate.FetchKey) (climate.TimeSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.clock.Since(e.storedAt) > c.ttl {
		c.remove(e)
		delete(c.entries, e.key)
		return nil, false
	}
	c.moveToFront(e)
	return e.series, true
}

func (c *Memory) Set(_ context.Context, key climate.FetchKey, series climate.TimeSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	if e, ok := c.entries[k]; ok {
		e.series = series
		e.storedAt = c.clock.Now()
		c.moveToFront(e)
		return
	}

	e := &entry{key: k, series: series, storedAt: c.clock.Now()}
	c.entries[k] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len reports the number of cached series.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Memory) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *Memory) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Memory) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *Memory) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
