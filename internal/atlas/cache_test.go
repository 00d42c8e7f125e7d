package atlas

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMemoizesPositiveResult(t *testing.T) {
	var loads atomic.Int32
	c := NewCache(func(k string) (int, bool) {
		loads.Add(1)
		return len(k), true
	}, nil)

	v, ok := c.Get("hello")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	v, ok = c.Get("hello")
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, int32(1), loads.Load(), "second Get must not reload")
}

func TestCacheMemoizesNegativeResult(t *testing.T) {
	var loads atomic.Int32
	c := NewCache(func(k string) (int, bool) {
		loads.Add(1)
		return 0, false
	}, nil)

	for i := 0; i < 3; i++ {
		_, ok := c.Get("missing")
		assert.False(t, ok)
	}
	assert.Equal(t, int32(1), loads.Load(), "negative result must not be retried")
	assert.True(t, c.Contains("missing"))
}

func TestCacheSingleFlight(t *testing.T) {
	const callers = 32

	var loads atomic.Int32
	release := make(chan struct{})
	c := NewCache(func(k string) (int, bool) {
		loads.Add(1)
		<-release
		return 42, true
	}, nil)

	results := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := c.Get("key")
			assert.True(t, ok)
			results <- v
		}()
	}

	// Let every goroutine pile onto the in-flight entry, then release.
	close(release)
	wg.Wait()
	close(results)

	assert.Equal(t, int32(1), loads.Load(), "concurrent Gets must collapse into one load")
	for v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestCachePanickingLoadMemoizesNegative(t *testing.T) {
	var loads atomic.Int32
	c := NewCache(func(k string) (int, bool) {
		loads.Add(1)
		panic("boom")
	}, nil)

	assert.Panics(t, func() { c.Get("bad") })

	// The placeholder stays: later callers see the zero result without a
	// second load attempt.
	v, ok := c.Get("bad")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, int32(1), loads.Load())
}

func TestCacheCleanRemovesDeadKeys(t *testing.T) {
	dead := map[string]bool{"b": true}
	c := NewCache(func(k string) (string, bool) {
		return k, true
	}, func(k string) bool {
		return !dead[k]
	})

	c.Get("a")
	c.Get("b")
	c.Get("c")
	require.Equal(t, 3, c.Len())

	removed := c.Clean()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("a"))
	assert.True(t, c.Contains("c"))
}

func TestCacheCleanSkipsInFlightEntries(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := NewCache(func(k string) (string, bool) {
		close(started)
		<-release
		return k, true
	}, func(k string) bool { return false })

	go c.Get("x")
	<-started

	assert.Equal(t, 0, c.Clean(), "in-flight entry must not be reaped")
	close(release)
}

func TestCacheNilLivenessNeverCleans(t *testing.T) {
	c := NewCache(func(k int) (int, bool) { return k, true }, nil)
	c.Get(1)
	c.Get(2)
	assert.Equal(t, 0, c.Clean())
	assert.Equal(t, 2, c.Len())
}
