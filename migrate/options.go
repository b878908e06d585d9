package migrate

import (
	"log/slog"

	"github.com/c360/s8rbridge/config"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/metric"
	"github.com/c360/s8rbridge/reflective"
)

// Option configures a Factory.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	collector *feedback.Collector
	metrics   *metric.MetricsRegistry
	config    *config.Config
	registry  *reflective.TypeRegistry
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCollector reports issues into c instead of a collector built from the
// configuration.
func WithCollector(c *feedback.Collector) Option {
	return func(o *options) { o.collector = c }
}

// WithMetrics registers issue, contract cache and conversion metrics on
// registry. A registry serves one factory.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(o *options) { o.metrics = registry }
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithTypeRegistry resolves reflective families against reg. The legacy
// core types are added to it if missing.
func WithTypeRegistry(reg *reflective.TypeRegistry) Option {
	return func(o *options) { o.registry = reg }
}
