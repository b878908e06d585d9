package cache

import (
	"fmt"

	"github.com/c360/s8rbridge/errors"
)

// Strategy defines the eviction strategy for the cache.
type Strategy string

const (
	// StrategySimple uses no eviction policy.
	StrategySimple Strategy = "simple"

	// StrategyLRU uses least recently used eviction bounded by MaxSize.
	StrategyLRU Strategy = "lru"
)

// Config selects and sizes a cache.
type Config struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	// MaxSize bounds LRU caches and is ignored by the simple strategy.
	MaxSize int `json:"max_size" yaml:"max_size"`
}

// DefaultConfig returns an unbounded simple cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Strategy: StrategySimple,
		MaxSize:  1000,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Strategy {
	case StrategySimple:
	case StrategyLRU:
		if c.MaxSize <= 0 {
			return invalidSize("Validate", c.MaxSize)
		}
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("unknown cache strategy %q", c.Strategy))
	}
	return nil
}

// NewFromConfig creates a cache based on config. A disabled config yields a
// cache that never stores anything.
func NewFromConfig[V any](config Config, options ...Option[V]) (Cache[V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.Enabled {
		return NewNoop[V](), nil
	}
	if config.Strategy == StrategyLRU {
		return NewLRU[V](config.MaxSize, options...)
	}
	return NewSimple[V](options...)
}

// NewLRU creates an LRU cache holding at most maxSize entries.
func NewLRU[V any](maxSize int, options ...Option[V]) (Cache[V], error) {
	return newLRUCache[V](maxSize, applyOptions(options...))
}

// NewSimple creates a cache with no eviction policy.
func NewSimple[V any](options ...Option[V]) (Cache[V], error) {
	return newSimpleCache[V](applyOptions(options...))
}

// NewNoop creates a cache that always misses.
func NewNoop[V any]() Cache[V] {
	return &noopCache[V]{stats: NewStatistics()}
}

type noopCache[V any] struct {
	stats *Statistics
}

func (c *noopCache[V]) Get(_ string) (V, bool) {
	c.stats.Miss()
	var zero V
	return zero, false
}

func (c *noopCache[V]) Set(_ string, _ V) (bool, error) { return false, nil }
func (c *noopCache[V]) Delete(_ string) (bool, error)   { return false, nil }
func (c *noopCache[V]) Clear() error                    { return nil }
func (c *noopCache[V]) Size() int                       { return 0 }
func (c *noopCache[V]) Keys() []string                  { return nil }
func (c *noopCache[V]) Stats() *Statistics              { return c.stats }

func invalidSize(method string, size int) error {
	return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", method,
		fmt.Sprintf("max_size must be positive for lru cache, got %d", size))
}
