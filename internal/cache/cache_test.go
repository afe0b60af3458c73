package cache

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := New[string, int](2)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	// touch a so b becomes the eviction candidate
	_, _ = c.Get("a")

	evicted := c.Set("c", 3)
	assert.True(t, evicted)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_NonPositiveCapacity(t *testing.T) {
	c := New[int, string](0)
	c.Set(1, "one")
	c.Set(2, "two")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(2)
	assert.True(t, ok)
}

func TestLRU_Stats(t *testing.T) {
	c := New[string, string](4)
	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Concurrent(t *testing.T) {
	c := New[int, int](50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set(base*1000+j, j)
				c.Get(base*1000 + j/2)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}

func TestKey(t *testing.T) {
	a := Key("same text")
	b := Key("same text")
	other := Key("other text")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Len(t, a, 64)
	assert.Len(t, Key(strings.Repeat("x", 10000)), 64)
}

func TestLRU_UpdateDoesNotEvict(t *testing.T) {
	c := New[string, int](1)
	assert.False(t, c.Set("a", 1))
	assert.False(t, c.Set("a", 2))
	assert.True(t, c.Set("b", 3))

	_, ok := c.Get("a")
	assert.False(t, ok)
	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}
