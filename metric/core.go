package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by this module.
const Namespace = "s8rbridge"

// Conversion outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics contains the metrics shared by every converter and wrapper
type Metrics struct {
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	WrapperCacheSize   *prometheus.GaugeVec
	WrappersCreated    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "conversion",
				Name:      "total",
				Help:      "Total number of conversions between component families",
			},
			[]string{"kind", "outcome"},
		),

		ConversionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "conversion",
				Name:      "duration_seconds",
				Help:      "Conversion duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"kind"},
		),

		WrapperCacheSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "wrapper",
				Name:      "cache_entries",
				Help:      "Entries held in wrapper caches",
			},
			[]string{"wrapper"},
		),

		WrappersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "wrapper",
				Name:      "created_total",
				Help:      "Wrappers created over legacy objects",
			},
			[]string{"wrapper"},
		),
	}
}

func (c *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.ConversionsTotal,
		c.ConversionDuration,
		c.WrapperCacheSize,
		c.WrappersCreated,
	}
}

// RecordConversion counts one conversion and observes its duration.
// A nil receiver is a no-op so callers need not guard optional metrics.
func (c *Metrics) RecordConversion(kind string, started time.Time, err error) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.ConversionsTotal.WithLabelValues(kind, outcome).Inc()
	c.ConversionDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

// RecordWrapperCreated counts a new wrapper of the given kind.
func (c *Metrics) RecordWrapperCreated(wrapper string) {
	if c == nil {
		return
	}
	c.WrappersCreated.WithLabelValues(wrapper).Inc()
}

// RecordCacheSize sets the entry gauge for a wrapper cache.
func (c *Metrics) RecordCacheSize(wrapper string, size int) {
	if c == nil {
		return
	}
	c.WrapperCacheSize.WithLabelValues(wrapper).Set(float64(size))
}
