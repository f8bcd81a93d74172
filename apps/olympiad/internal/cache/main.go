// Package cache holds previously loaded values for a fixed TTL and keeps
// serving them while a refresh is pending or after a refresh failed. Failed
// loads are remembered for the TTL too, so a source that is down is retried
// once per TTL instead of on every request.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"golang.org/x/sync/singleflight"
	"olympiad.xdoubleu.com/internal/metrics"
)

const (
	OutcomeHit   = "hit"
	OutcomeStale = "stale"
	OutcomeMiss  = "miss"
)

type LoadFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value    T
	err      error
	loadedAt time.Time
}

type Cache[T any] struct {
	name    string
	logger  *slog.Logger
	ttl     time.Duration
	clock   Clock
	mu      sync.RWMutex
	entries map[string]entry[T]
	group   singleflight.Group
}

func New[T any](name string, logger *slog.Logger, ttl time.Duration, clock Clock) *Cache[T] {
	//nolint:exhaustruct //mu and group have usable zero values
	return &Cache[T]{
		name:    name,
		logger:  logger,
		ttl:     ttl,
		clock:   clock,
		entries: map[string]entry[T]{},
	}
}

// Get returns the cached value for key. A stale value is returned as is
// while a single background refresh runs. Only a missing value makes the
// caller wait for load.
func (c *Cache[T]) Get(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCache(c.name, OutcomeMiss)
		return c.Refresh(ctx, key, load)
	}

	if c.clock.Now().Sub(cached.loadedAt) < c.ttl {
		metrics.RecordCache(c.name, OutcomeHit)
		return cached.value, cached.err
	}

	metrics.RecordCache(c.name, OutcomeStale)

	resultCh := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, load)
	})
	go func() {
		result := <-resultCh
		if result.Err != nil {
			c.logger.Warn(
				"refreshing cache entry failed, keeping stale value",
				slog.String("cache", c.name),
				slog.String("key", key),
				logging.ErrAttr(result.Err),
			)
		}
	}()

	return cached.value, cached.err
}

// Refresh loads key now, joining a load already in flight for the same key.
// On failure the previous value stays cached.
func (c *Cache[T]) Refresh(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	value, err, _ := c.group.Do(key, func() (any, error) {
		return c.load(ctx, key, load)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	//nolint:errcheck,forcetypeassert //load only returns T
	return value.(T), nil
}

func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, err: nil, loadedAt: c.clock.Now()}
}

// Peek reports the cached value of key, remembered failures excluded.
func (c *Cache[T]) Peek(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[key]
	return cached.value, ok && cached.err == nil
}

func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache[T]) load(ctx context.Context, key string, load LoadFunc[T]) (any, error) {
	value, err := load(ctx)
	if err != nil {
		c.remember(key, err)
		return nil, err
	}

	c.Set(key, value)
	return value, nil
}

// remember stamps a failed load. A previous value keeps being served, without
// one the error itself is cached.
func (c *Cache[T]) remember(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()

	previous, ok := c.entries[key]
	if ok && previous.err == nil {
		previous.loadedAt = now
		c.entries[key] = previous
		return
	}

	var zero T
	c.entries[key] = entry[T]{value: zero, err: err, loadedAt: now}
}
