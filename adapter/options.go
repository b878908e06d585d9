package adapter

import (
	"github.com/c360/s8rbridge/direct"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/metric"
)

// Wrapper kinds used as metric labels.
const (
	kindCompositePort    = "composite_port"
	kindMachinePort      = "machine_port"
	kindCompositeWrapper = "composite_wrapper"
	kindMachineWrapper   = "machine_wrapper"
)

// Option configures adapters and wrappers.
type Option func(*options)

type options struct {
	issues  *feedback.Logger
	metrics *metric.Metrics
	tubes   *direct.ComponentAdapter
}

// WithIssues routes migration issues to l.
func WithIssues(l *feedback.Logger) Option {
	return func(o *options) { o.issues = l }
}

// WithMetrics records wrapper creation and cache sizes on m.
func WithMetrics(m *metric.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTubeAdapter shares a tube adapter between wrappers so they report
// through the same translator.
func WithTubeAdapter(a *direct.ComponentAdapter) Option {
	return func(o *options) { o.tubes = a }
}

func applyOptions(category string, opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.issues == nil {
		o.issues = feedback.NewLogger(category, feedback.NewCollector(feedback.DefaultCollectorConfig()))
	} else {
		o.issues = o.issues.Named(category)
	}
	if o.tubes == nil {
		o.tubes = direct.NewComponentAdapter(o.issues)
	}
	return o
}
