package cache

import (
	"github.com/c360/s8rbridge/metric"
)

// Option configures cache behavior.
type Option[V any] func(*cacheOptions[V])

type cacheOptions[V any] struct {
	metricsReg    metric.MetricsRegistrar
	metricsPrefix string
	evictCallback EvictCallback[V]
}

// WithMetrics exports cache statistics as Prometheus metrics labelled with
// prefix. A nil registrar or empty prefix leaves metrics disabled.
func WithMetrics[V any](registrar metric.MetricsRegistrar, prefix string) Option[V] {
	return func(opts *cacheOptions[V]) {
		if registrar != nil && prefix != "" {
			opts.metricsReg = registrar
			opts.metricsPrefix = prefix
		}
	}
}

// WithEvictionCallback sets a function called for every removed entry.
func WithEvictionCallback[V any](callback EvictCallback[V]) Option[V] {
	return func(opts *cacheOptions[V]) {
		opts.evictCallback = callback
	}
}

func applyOptions[V any](options ...Option[V]) *cacheOptions[V] {
	opts := &cacheOptions[V]{}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}

func (o *cacheOptions[V]) recorder() (recorder, error) {
	r := recorder{stats: NewStatistics()}
	if o.metricsReg == nil {
		return r, nil
	}
	m, err := newCacheMetrics(o.metricsReg, o.metricsPrefix)
	if err != nil {
		return recorder{}, err
	}
	r.metrics = m
	return r, nil
}
