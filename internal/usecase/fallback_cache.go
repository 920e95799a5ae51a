package usecase

import (
	"sync"
	"time"
)

type cachedEntry[T any] struct {
	value    T
	storedAt time.Time
}

// fallbackCache хранит последний успешный ответ по ключу.
// Используется только при сбое внешней функции, поэтому устаревание проверяется при чтении.
type fallbackCache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]cachedEntry[T]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newFallbackCache[T any](ttl time.Duration, maxEntries int) *fallbackCache[T] {
	return &fallbackCache[T]{
		entries:    make(map[string]cachedEntry[T]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *fallbackCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = cachedEntry[T]{value: value, storedAt: c.now()}
}

func (c *fallbackCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *fallbackCache[T]) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}
