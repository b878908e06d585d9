package feedback

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360/s8rbridge/errors"
)

// Severity orders issues by impact.
type Severity int

// Severities, lowest first
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

var severityNames = [...]string{"debug", "info", "warning", "error", "critical"}

// Severities returns every Severity, lowest first.
func Severities() []Severity {
	return []Severity{SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
}

// String returns the lower-case severity name
func (s Severity) String() string {
	if s < SeverityDebug || s > SeverityCritical {
		return "unknown"
	}
	return severityNames[s]
}

// AtLeast reports whether s is at or above min.
func (s Severity) AtLeast(min Severity) bool { return s >= min }

// ParseSeverity parses a severity name, accepting "warn" for warning.
func ParseSeverity(name string) (Severity, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "warn" {
		return SeverityWarning, nil
	}
	for i, s := range severityNames {
		if s == n {
			return Severity(i), nil
		}
	}
	return SeverityInfo, errors.WrapInvalid(
		fmt.Errorf("%w: severity %q", errors.ErrUnknownType, name), "feedback", "ParseSeverity", "severity lookup")
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IssueType classifies what went wrong during a translation.
type IssueType string

// Issue types
const (
	TypeMismatch         IssueType = "type_mismatch"
	MissingProperty      IssueType = "missing_property"
	StateTransition      IssueType = "state_transition"
	ReflectionError      IssueType = "reflection_error"
	MethodMapping        IssueType = "method_mapping"
	StructuralDifference IssueType = "structural_difference"
	Lifecycle            IssueType = "lifecycle"
	Dependency           IssueType = "dependency"
	Unknown              IssueType = "unknown"
)

// IssueTypes returns every IssueType in report order.
func IssueTypes() []IssueType {
	return []IssueType{
		TypeMismatch, MissingProperty, StateTransition, ReflectionError,
		MethodMapping, StructuralDifference, Lifecycle, Dependency, Unknown,
	}
}

// Issue is a single observation recorded during translation.
type Issue struct {
	ID             string            `json:"id" yaml:"id"`
	Type           IssueType         `json:"type" yaml:"type"`
	Severity       Severity          `json:"severity" yaml:"severity"`
	Component      string            `json:"component,omitempty" yaml:"component,omitempty"`
	Property       string            `json:"property,omitempty" yaml:"property,omitempty"`
	Message        string            `json:"message" yaml:"message"`
	LegacyValue    string            `json:"legacy_value,omitempty" yaml:"legacy_value,omitempty"`
	NewValue       string            `json:"new_value,omitempty" yaml:"new_value,omitempty"`
	Recommendation string            `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Source         string            `json:"source,omitempty" yaml:"source,omitempty"`
	Context        map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
	Timestamp      time.Time         `json:"timestamp" yaml:"timestamp"`
}

// IssueOption configures an Issue under construction.
type IssueOption func(*Issue)

// WithComponent sets the component or category the issue belongs to.
func WithComponent(component string) IssueOption {
	return func(i *Issue) { i.Component = component }
}

// WithProperty names the property involved.
func WithProperty(property string) IssueOption {
	return func(i *Issue) { i.Property = property }
}

// WithValues records the legacy and new-side values involved.
func WithValues(legacy, newValue string) IssueOption {
	return func(i *Issue) {
		i.LegacyValue = legacy
		i.NewValue = newValue
	}
}

// WithRecommendation attaches a suggested fix.
func WithRecommendation(rec string) IssueOption {
	return func(i *Issue) { i.Recommendation = rec }
}

// WithSource records the reporting call site.
func WithSource(source string) IssueOption {
	return func(i *Issue) { i.Source = source }
}

// WithContext adds a context entry.
func WithContext(key, value string) IssueOption {
	return func(i *Issue) {
		if i.Context == nil {
			i.Context = make(map[string]string)
		}
		i.Context[key] = value
	}
}

// NewIssue builds an Issue with a fresh id and timestamp.
func NewIssue(issueType IssueType, severity Severity, message string, opts ...IssueOption) Issue {
	issue := Issue{
		ID:        uuid.NewString(),
		Type:      issueType,
		Severity:  severity,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&issue)
	}
	return issue
}

// String returns a one-line summary.
func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(i.Severity.String()), i.Type, i.Message)
}

// Detailed returns a multi-line description including every populated field.
func (i Issue) Detailed() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue %s\n", i.ID)
	fmt.Fprintf(&sb, "  type:      %s\n", i.Type)
	fmt.Fprintf(&sb, "  severity:  %s\n", i.Severity)
	fmt.Fprintf(&sb, "  message:   %s\n", i.Message)
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "  %-10s %s\n", name+":", value)
		}
	}
	field("component", i.Component)
	field("property", i.Property)
	field("legacy", i.LegacyValue)
	field("new", i.NewValue)
	field("fix", i.Recommendation)
	field("source", i.Source)
	for _, k := range sortedKeys(i.Context) {
		fmt.Fprintf(&sb, "  context.%s: %s\n", k, i.Context[k])
	}
	fmt.Fprintf(&sb, "  at:        %s\n", i.Timestamp.Format(time.RFC3339Nano))
	return sb.String()
}

func (i Issue) clone() Issue {
	if i.Context != nil {
		i.Context = maps.Clone(i.Context)
	}
	return i
}
