package dedupe

import (
	"sync"
	"time"
)

type entry struct {
	id string
	at time.Time
}

// Cache remembers recently indexed activity event ids so that Kafka
// redeliveries are not written twice.
type Cache struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	queue    []entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache holding at most capacity ids for ttl each.
func NewCache(capacity int, ttl time.Duration) *Cache {
	return newCache(capacity, ttl, time.Now)
}

func newCache(capacity int, ttl time.Duration, now func() time.Time) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		seen:     make(map[string]time.Time, capacity),
		queue:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      now,
	}
}

// Seen reports whether id was marked within the ttl window.
func (c *Cache) Seen(id string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.seen[id]
	return ok && now.Sub(at) <= c.ttl
}

// Mark records id as processed.
func (c *Cache) Mark(id string) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[id] = now
	c.queue = append(c.queue, entry{id: id, at: now})
	c.evict(now)
}

// Len returns the number of live ids.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// evict drops queue heads that are expired or exceed capacity. A queue entry
// only removes the map key when it is the latest mark for that id.
func (c *Cache) evict(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.queue) > 0 && (len(c.seen) > c.capacity || c.queue[0].at.Before(cutoff)) {
		head := c.queue[0]
		c.queue = c.queue[1:]

		if at, ok := c.seen[head.id]; ok && at.Equal(head.at) {
			delete(c.seen, head.id)
		}
	}
}
