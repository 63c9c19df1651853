package dedupe

import (
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// Key fingerprints a post by its normalized title and body.
func Key(title, body string) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(strings.ToLower(strings.TrimSpace(title)))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strings.TrimSpace(body))
	return h.Sum64()
}

type entry struct {
	key uint64
	ts  time.Time
}

// Cache remembers which posts were indexed recently so redelivered Kafka
// messages do not trigger a second write.
type Cache struct {
	mu       sync.Mutex
	items    map[uint64]time.Time
	order    []entry
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		items:    make(map[uint64]time.Time, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Seen reports whether key was marked inside the ttl window.
func (c *Cache) Seen(key uint64) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ts, ok := c.items[key]
	return ok && now.Sub(ts) <= c.ttl
}

// Mark records key as processed.
func (c *Cache) Mark(key uint64) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = now
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
}

// Len is the number of live keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		// A re-marked key has a newer entry further down the queue.
		if ts, ok := c.items[oldest.key]; ok && ts.Equal(oldest.ts) {
			delete(c.items, oldest.key)
		}
	}
}
