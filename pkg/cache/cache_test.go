package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/metric"
)

func TestSimpleCache_Basics(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	created, err := c.Set("a", 1)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.Set("a", 2)
	require.NoError(t, err)
	assert.False(t, created, "overwrite is not a new entry")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	existed, err := c.Delete("a")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 0, c.Size())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits())
	assert.Equal(t, int64(1), stats.Misses())
	assert.Equal(t, int64(2), stats.Sets())
	assert.Equal(t, int64(1), stats.Deletes())
	assert.Equal(t, int64(1), stats.MaxSize())
	assert.InDelta(t, 0.5, stats.HitRatio(), 0.0001)
}

func TestCache_EmptyKeyRejected(t *testing.T) {
	simple, err := NewSimple[string]()
	require.NoError(t, err)
	lru, err := NewLRU[string](2)
	require.NoError(t, err)

	for name, c := range map[string]Cache[string]{"simple": simple, "lru": lru} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Set("", "x")
			assert.True(t, errors.IsInvalid(err))
			_, err = c.Delete("")
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c, err := NewLRU[int](2, WithEvictionCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	}))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)
	_, _ = c.Get("a") // b is now least recently used
	_, _ = c.Set("c", 3)

	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, []string{"c", "a"}, c.Keys())
	assert.Equal(t, int64(1), c.Stats().Evictions())

	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestLRUCache_ClearCallsCallback(t *testing.T) {
	var removed []string
	c, err := NewLRU[int](3, WithEvictionCallback(func(key string, _ int) {
		removed = append(removed, key)
	}))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)
	require.NoError(t, c.Clear())

	assert.ElementsMatch(t, []string{"a", "b"}, removed)
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, int64(0), c.Stats().CurrentSize())
}

func TestNewLRU_InvalidSize(t *testing.T) {
	_, err := NewLRU[int](0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewSimple[string]()
	require.NoError(t, err)

	calls := 0
	load := func() (string, error) {
		calls++
		return "loaded", nil
	}

	v, err := GetOrLoad(c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "loaded", v)

	v, err = GetOrLoad(c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, "loaded", v)
	assert.Equal(t, 1, calls)

	boom := fmt.Errorf("boom")
	_, err = GetOrLoad(c, "other", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("other")
	assert.False(t, ok, "failed loads are not cached")
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		noop    bool
	}{
		{name: "default", config: DefaultConfig()},
		{name: "lru", config: Config{Enabled: true, Strategy: StrategyLRU, MaxSize: 4}},
		{name: "disabled", config: Config{Enabled: false, Strategy: "bogus"}, noop: true},
		{name: "lru without size", config: Config{Enabled: true, Strategy: StrategyLRU}, wantErr: true},
		{name: "unknown strategy", config: Config{Enabled: true, Strategy: "ttl"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewFromConfig[int](tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalid(err))
				return
			}
			require.NoError(t, err)

			_, _ = c.Set("k", 1)
			_, ok := c.Get("k")
			assert.Equal(t, !tt.noop, ok)
		})
	}
}

func TestCache_Metrics(t *testing.T) {
	reg := metric.NewMetricsRegistry()
	c, err := NewSimple[int](WithMetrics[int](reg, "contracts"))
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("b")

	m := c.(*simpleCache[int]).rec.metrics
	require.NotNil(t, m)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.size))

	_, err = NewSimple[int](WithMetrics[int](reg, "contracts"))
	assert.Error(t, err, "same prefix cannot register twice")
}

func TestWithMetrics_NilRegistrarDisables(t *testing.T) {
	c, err := NewSimple[int](WithMetrics[int](nil, "x"))
	require.NoError(t, err)
	assert.Nil(t, c.(*simpleCache[int]).rec.metrics)
	_, _ = c.Get("a")
	assert.Equal(t, int64(1), c.Stats().Misses())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c, err := NewLRU[int](50)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%120)
				_, _ = c.Set(key, i)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 50)
	assert.Equal(t, int64(1600), c.Stats().Sets())
}

func TestStatistics_Reset(t *testing.T) {
	s := NewStatistics()
	s.Hit()
	s.UpdateSize(5)
	s.Reset()

	sum := s.Summary()
	assert.Zero(t, sum.Hits)
	assert.Zero(t, sum.MaxSize)
	assert.Zero(t, sum.HitRatio)
}
