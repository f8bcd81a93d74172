package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"olympiad.xdoubleu.com/apps/olympiad/internal/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache() (*cache.Cache[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}
	return cache.New[string]("test", logging.NewNopLogger(), time.Hour, clock), clock
}

func constLoad(value string, calls *atomic.Int32) cache.LoadFunc[string] {
	return func(_ context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestMissLoadsSynchronously(t *testing.T) {
	c, _ := newCache()
	var calls atomic.Int32

	value, err := c.Get(context.Background(), "mipt", constLoad("v1", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestFreshEntryIsServed(t *testing.T) {
	c, clock := newCache()
	var calls atomic.Int32

	_, err := c.Get(context.Background(), "mipt", constLoad("v1", &calls))
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)

	value, err := c.Get(context.Background(), "mipt", constLoad("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStaleEntryServedWhileRefreshing(t *testing.T) {
	c, clock := newCache()
	var calls atomic.Int32

	_, err := c.Get(context.Background(), "mipt", constLoad("v1", &calls))
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	value, err := c.Get(context.Background(), "mipt", constLoad("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)

	assert.Eventually(t, func() bool {
		current, _ := c.Peek("mipt")
		return current == "v2"
	}, time.Second, 5*time.Millisecond)

	value, err = c.Get(context.Background(), "mipt", constLoad("v3", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestFailedRefreshKeepsEntry(t *testing.T) {
	c, clock := newCache()
	var calls atomic.Int32

	_, err := c.Get(context.Background(), "mipt", constLoad("v1", &calls))
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	failing := func(_ context.Context) (string, error) {
		return "", errors.New("unreachable")
	}

	_, err = c.Refresh(context.Background(), "mipt", failing)
	assert.Error(t, err)

	value, ok := c.Peek("mipt")
	assert.True(t, ok)
	assert.Equal(t, "v1", value)
}

func TestMissFailureIsReturned(t *testing.T) {
	c, _ := newCache()

	_, err := c.Get(context.Background(), "mipt", func(_ context.Context) (string, error) {
		return "", errors.New("unreachable")
	})
	assert.Error(t, err)

	_, ok := c.Peek("mipt")
	assert.False(t, ok)
}

func TestFailureIsRememberedForTTL(t *testing.T) {
	c, clock := newCache()
	var calls atomic.Int32

	failing := func(_ context.Context) (string, error) {
		calls.Add(1)
		return "", errors.New("unreachable")
	}

	for range 3 {
		_, err := c.Get(context.Background(), "bmstu", failing)
		assert.Error(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Hour)

	_, err := c.Get(context.Background(), "bmstu", constLoad("back", &calls))
	assert.Error(t, err)

	assert.Eventually(t, func() bool {
		value, ok := c.Peek("bmstu")
		return ok && value == "back"
	}, time.Second, 5*time.Millisecond)

	value, err := c.Get(context.Background(), "bmstu", failing)
	require.NoError(t, err)
	assert.Equal(t, "back", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailedRefreshDelaysRetry(t *testing.T) {
	c, clock := newCache()
	var calls atomic.Int32

	_, err := c.Get(context.Background(), "mipt", constLoad("v1", &calls))
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = c.Refresh(context.Background(), "mipt", func(_ context.Context) (string, error) {
		return "", errors.New("unreachable")
	})
	assert.Error(t, err)

	value, err := c.Get(context.Background(), "mipt", constLoad("v2", &calls))
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestKeysAreIsolated(t *testing.T) {
	c, _ := newCache()
	var calls atomic.Int32

	_, err := c.Get(context.Background(), "mipt", constLoad("mipt", &calls))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "msu", func(_ context.Context) (string, error) {
		return "", errors.New("unreachable")
	})
	assert.Error(t, err)

	value, err := c.Get(context.Background(), "mipt", constLoad("other", &calls))
	require.NoError(t, err)
	assert.Equal(t, "mipt", value)
}

func TestConcurrentMissesLoadOnce(t *testing.T) {
	c, _ := newCache()
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(_ context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v1", nil
	}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := c.Get(context.Background(), "mipt", load)
			assert.NoError(t, err)
			assert.Equal(t, "v1", value)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestSetAndInvalidate(t *testing.T) {
	c, _ := newCache()

	c.Set("mipt", "v1")
	value, ok := c.Peek("mipt")
	assert.True(t, ok)
	assert.Equal(t, "v1", value)

	c.Invalidate("mipt")
	_, ok = c.Peek("mipt")
	assert.False(t, ok)
}
