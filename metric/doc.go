// Package metric provides the Prometheus metrics registry used by the
// translation layer.
//
// MetricsRegistry owns a private prometheus.Registry with the core conversion
// metrics (Metrics) pre-registered, and lets packages register their own
// collectors under an owner name with duplicate detection:
//
//	registry := metric.NewMetricsRegistry()
//	issues := prometheus.NewCounterVec(opts, []string{"category", "type", "severity"})
//	if err := registry.RegisterCounterVec("feedback", "issues_total", issues); err != nil {
//	    return err
//	}
//
// Registration errors are classified: a duplicate is ErrorInvalid, any other
// prometheus failure is ErrorFatal.
//
// The Metrics recorders accept a nil receiver, so code paths with metrics
// disabled can call them unconditionally.
package metric
