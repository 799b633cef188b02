package memory

import (
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ttlCache holds loaded values with a jittered TTL and collapses concurrent
// loads of the same key.
type ttlCache[T any] struct {
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: make(map[string]cacheEntry[T]),
	}
}

func (c *ttlCache[T]) get(key string, load func() (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry[T]{value: v, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (c *ttlCache[T]) lookup(key string) (T, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[T]) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
