package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/s8rbridge/metric"
)

// IssueMetrics counts reported issues. One instance is shared by every Logger
// built against the same registry.
type IssueMetrics struct {
	issues *prometheus.CounterVec
}

// NewIssueMetrics registers the issue counter with registrar.
func NewIssueMetrics(registrar metric.MetricsRegistrar) (*IssueMetrics, error) {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metric.Namespace,
			Subsystem: "migration",
			Name:      "issues_total",
			Help:      "Migration issues reported, by category, type and severity",
		},
		[]string{"category", "type", "severity"},
	)
	if registrar != nil {
		if err := registrar.RegisterCounterVec("feedback", "issues_total", vec); err != nil {
			return nil, err
		}
	}
	return &IssueMetrics{issues: vec}, nil
}

// Counter exposes the underlying vector for assertions and custom exporters.
func (m *IssueMetrics) Counter() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.issues
}

func (m *IssueMetrics) inc(category string, t IssueType, s Severity) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(category, string(t), s.String()).Inc()
}

// Logger reports issues for one category (usually a converter or adapter
// name). Reporting never fails and never alters the caller's control flow.
type Logger struct {
	category  string
	collector *Collector
	base      *slog.Logger
	logger    *slog.Logger
	metrics   *IssueMetrics
	console   bool
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithSlog mirrors every issue to logger. Nil selects slog.Default().
func WithSlog(logger *slog.Logger) LoggerOption {
	return func(l *Logger) { l.base = logger }
}

// WithIssueMetrics counts every issue in m.
func WithIssueMetrics(m *IssueMetrics) LoggerOption {
	return func(l *Logger) { l.metrics = m }
}

// WithoutConsole disables the slog mirror.
func WithoutConsole() LoggerOption {
	return func(l *Logger) { l.console = false }
}

// NewLogger creates a Logger for category writing into collector. A nil
// collector records nothing but still logs and counts.
func NewLogger(category string, collector *Collector, opts ...LoggerOption) *Logger {
	l := &Logger{category: category, collector: collector, console: true}
	for _, opt := range opts {
		opt(l)
	}
	if l.base == nil {
		l.base = slog.Default()
	}
	l.logger = l.base.With("component", category)
	return l
}

// Named derives a Logger for a sub-category sharing the same sinks. The
// sub-category replaces the parent's component attribute.
func (l *Logger) Named(category string) *Logger {
	return &Logger{
		category:  category,
		collector: l.collector,
		base:      l.base,
		logger:    l.base.With("component", category),
		metrics:   l.metrics,
		console:   l.console,
	}
}

// Category returns the category the logger reports under.
func (l *Logger) Category() string { return l.category }

// Collector returns the collector issues are written to.
func (l *Logger) Collector() *Collector { return l.collector }

// ReportTypeMismatch records that property expected newType but received legacyType.
func (l *Logger) ReportTypeMismatch(property, legacyType, newType string) Issue {
	return l.emit(NewIssue(TypeMismatch, SeverityWarning,
		fmt.Sprintf("Type mismatch: %s expected %s but got %s", property, newType, legacyType),
		WithProperty(property),
		WithValues(legacyType, newType),
		WithRecommendation(fmt.Sprintf("Convert %s to %s before assigning to %s", legacyType, newType, property)),
	))
}

// ReportPropertyNotFound records a property missing on the legacy side.
func (l *Logger) ReportPropertyNotFound(property string) Issue {
	return l.emit(NewIssue(MissingProperty, SeverityWarning,
		fmt.Sprintf("Property not found: %s", property),
		WithProperty(property),
		WithRecommendation(fmt.Sprintf("Check whether %s is mapped under a different name", property)),
	))
}

// ReportStateTransition records a questionable lifecycle transition.
func (l *Logger) ReportStateTransition(from, to, reason string) Issue {
	return l.emit(NewIssue(StateTransition, SeverityWarning,
		fmt.Sprintf("Invalid state transition from %s to %s: %s", from, to, reason),
		WithValues(from, to),
		WithRecommendation(fmt.Sprintf("Ensure a valid transition path from %s to %s", from, to)),
	))
}

// ReportReflectionError records a failed reflective access on target.
func (l *Logger) ReportReflectionError(target string, err error) Issue {
	return l.emit(NewIssue(ReflectionError, SeverityError,
		fmt.Sprintf("Reflection error accessing %s: %v", target, err),
		WithProperty(target),
		WithContext("error", fmt.Sprintf("%+v", err)),
	))
}

// ReportMethodMapping records a method that does not map cleanly between families.
func (l *Logger) ReportMethodMapping(legacyMethod, newMethod, reason string) Issue {
	return l.emit(NewIssue(MethodMapping, SeverityWarning,
		fmt.Sprintf("Method mapping issue between %s and %s: %s", legacyMethod, newMethod, reason),
		WithValues(legacyMethod, newMethod),
	))
}

// ReportStructuralDifference records a shape difference between the families.
func (l *Logger) ReportStructuralDifference(legacyStructure, newStructure string) Issue {
	return l.emit(NewIssue(StructuralDifference, SeverityInfo,
		"Structural difference between legacy and new components",
		WithValues(legacyStructure, newStructure),
	))
}

// Report records a free-form issue.
func (l *Logger) Report(t IssueType, s Severity, message string, opts ...IssueOption) Issue {
	return l.emit(NewIssue(t, s, message, opts...))
}

func (l *Logger) emit(issue Issue) Issue {
	if issue.Component == "" {
		issue.Component = l.category
	}
	if issue.Source == "" {
		issue.Source = caller(3)
	}

	if l.collector != nil {
		l.collector.Add(issue)
	}
	l.metrics.inc(l.category, issue.Type, issue.Severity)

	if l.console {
		attrs := []any{"issue_type", string(issue.Type), "issue_id", issue.ID}
		if issue.Property != "" {
			attrs = append(attrs, "property", issue.Property)
		}
		l.logger.Log(context.Background(), slogLevel(issue.Severity), issue.Message, attrs...)
	}
	return issue
}

func slogLevel(s Severity) slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// caller returns "pkg.Func" for the frame skip levels above caller itself.
func caller(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
