// Package cache provides generic, thread-safe caches used to memoize
// expensive lookups such as resolved reflection contracts.
//
// Two strategies are available:
//   - simple: no eviction, entries live until deleted or cleared
//   - lru: least recently used eviction once MaxSize is exceeded
//
// Every cache keeps Statistics. Prometheus metrics are optional and enabled
// with WithMetrics.
package cache

import (
	"github.com/c360/s8rbridge/errors"
)

// Cache is the interface every strategy satisfies.
type Cache[V any] interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (V, bool)

	// Set stores value under key and reports whether a new entry was created.
	Set(key string, value V) (bool, error)

	// Delete removes key and reports whether it existed.
	Delete(key string) (bool, error)

	// Clear removes every entry.
	Clear() error

	Size() int
	Keys() []string
	Stats() *Statistics
}

// EvictCallback is called with each entry removed by eviction, Delete or Clear.
type EvictCallback[V any] func(key string, value V)

// GetOrLoad returns the cached value for key, calling load and storing its
// result on a miss. Load errors are returned unwrapped and nothing is stored.
// Concurrent misses for the same key may call load more than once; the last
// Set wins.
func GetOrLoad[V any](c Cache[V], key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	if _, err := c.Set(key, v); err != nil {
		return v, err
	}
	return v, nil
}

func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "cache", "validateKey", "key cannot be empty")
	}
	return nil
}

// recorder fans cache events out to Statistics and the optional metrics.
type recorder struct {
	stats   *Statistics
	metrics *cacheMetrics
}

func (r recorder) hit() {
	r.stats.Hit()
	r.metrics.recordHit()
}

func (r recorder) miss() {
	r.stats.Miss()
	r.metrics.recordMiss()
}

func (r recorder) set(size int) {
	r.stats.Set()
	r.stats.UpdateSize(int64(size))
	r.metrics.recordSet()
	r.metrics.updateSize(size)
}

func (r recorder) deleted(size int) {
	r.stats.Delete()
	r.stats.UpdateSize(int64(size))
	r.metrics.recordDelete()
	r.metrics.updateSize(size)
}

func (r recorder) evicted() {
	r.stats.Eviction()
	r.metrics.recordEviction()
}

func (r recorder) cleared() {
	r.stats.UpdateSize(0)
	r.metrics.updateSize(0)
}
