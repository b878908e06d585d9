package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/metric"
)

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))

	s, err := ParseSeverity("WARN")
	require.NoError(t, err)
	assert.Equal(t, SeverityWarning, s)

	s, err = ParseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, s)

	_, err = ParseSeverity("loud")
	assert.Error(t, err)
}

func TestNewIssue_Options(t *testing.T) {
	issue := NewIssue(TypeMismatch, SeverityWarning, "bad type",
		WithComponent("identity"),
		WithProperty("env"),
		WithValues("string", "Environment"),
		WithRecommendation("convert it"),
		WithContext("class", "Tube"),
	)

	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, "identity", issue.Component)
	assert.Equal(t, "string", issue.LegacyValue)
	assert.Equal(t, "Environment", issue.NewValue)
	assert.Equal(t, "Tube", issue.Context["class"])
	assert.Equal(t, "[WARNING] type_mismatch: bad type", issue.String())

	detailed := issue.Detailed()
	assert.Contains(t, detailed, "property:  env")
	assert.Contains(t, detailed, "context.class: Tube")
}

func TestCollector_MinSeverityAndCap(t *testing.T) {
	c := NewCollector(CollectorConfig{MinSeverity: SeverityInfo, MaxIssuesPerComponent: 2})

	assert.False(t, c.Add(NewIssue(Unknown, SeverityDebug, "noise", WithComponent("a"))))
	assert.True(t, c.Add(NewIssue(Unknown, SeverityInfo, "1", WithComponent("a"))))
	assert.True(t, c.Add(NewIssue(Unknown, SeverityInfo, "2", WithComponent("a"))))
	assert.False(t, c.Add(NewIssue(Unknown, SeverityInfo, "3", WithComponent("a"))))
	assert.True(t, c.Add(NewIssue(Unknown, SeverityError, "4", WithComponent("a"))), "errors bypass the cap")
	assert.True(t, c.Add(NewIssue(Unknown, SeverityWarning, "5", WithComponent("a"))), "warnings bypass the cap")
	assert.True(t, c.Add(NewIssue(Unknown, SeverityError, "6", WithComponent("b"))))

	stats := c.Stats()
	assert.Equal(t, 5, stats.TotalIssues)
	assert.Equal(t, 2, stats.AffectedComponents)
	assert.Equal(t, 2, stats.Dropped)
	assert.Equal(t, 2, stats.BySeverity[SeverityInfo])
	assert.Equal(t, 0, stats.BySeverity[SeverityCritical])
	assert.Equal(t, 5, stats.ByType[Unknown])
	assert.Len(t, c.ForComponent("a"), 4)
}

func TestCollector_Indexes(t *testing.T) {
	c := NewCollector(DefaultCollectorConfig())

	c.Add(NewIssue(TypeMismatch, SeverityWarning, "m1", WithComponent("identity"), WithProperty("env")))
	c.Add(NewIssue(TypeMismatch, SeverityWarning, "m2", WithComponent("identity")))
	c.Add(NewIssue(Lifecycle, SeverityInfo, "l1", WithComponent("adapter")))
	c.Add(NewIssue(ReflectionError, SeverityError, "r1", WithComponent("reflective")))

	assert.Len(t, c.ByType(TypeMismatch), 2)
	assert.Len(t, c.BySeverity(SeverityWarning), 2)
	assert.Len(t, c.ForComponent("identity"), 2)
	assert.Len(t, c.AtLeast(SeverityWarning), 3)
	assert.Len(t, c.ByProperty("env"), 1)

	types := c.MostCommonTypes(1)
	require.Len(t, types, 1)
	assert.Equal(t, Ranked[IssueType]{Key: TypeMismatch, Count: 2}, types[0])

	comps := c.MostAffectedComponents(10)
	require.Len(t, comps, 3)
	assert.Equal(t, "identity", comps[0].Key)
	assert.Equal(t, "adapter", comps[1].Key, "ties break alphabetically")

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ByType(TypeMismatch))
}

func TestCollector_IssuesAreCopies(t *testing.T) {
	c := NewCollector(DefaultCollectorConfig())
	c.Add(NewIssue(Unknown, SeverityInfo, "x", WithContext("k", "v")))

	got := c.Issues()
	got[0].Context["k"] = "changed"
	assert.Equal(t, "v", c.Issues()[0].Context["k"])
}

func TestCollector_Recommendations(t *testing.T) {
	c := NewCollector(CollectorConfig{MinSeverity: SeverityDebug, RecommendationThreshold: 2})
	log := NewLogger("identity", c, WithoutConsole())

	log.ReportTypeMismatch("env", "string", "Environment")
	log.ReportTypeMismatch("env", "string", "Environment")
	log.ReportTypeMismatch("env", "string", "Environment")
	log.ReportTypeMismatch("parent", "int", "Identity")
	log.ReportStateTransition("active", "terminated", "skips deactivating")
	log.ReportStateTransition("active", "terminated", "skips deactivating")

	recs := c.Recommendations()
	require.Len(t, recs, 2)
	assert.Equal(t, 3, recs[0].IssueCount)
	assert.Equal(t, "Type mismatch between string and Environment", recs[0].Description)
	assert.Equal(t, "state_transition_active_terminated", recs[1].ID)
	assert.Equal(t, 2, recs[1].IssueCount)

	c.Configure(CollectorConfig{DisableRecommendations: true})
	assert.Empty(t, c.Recommendations())
}

func TestCollector_ReportSerializes(t *testing.T) {
	c := NewCollector(DefaultCollectorConfig())
	log := NewLogger("adapter", c, WithoutConsole())
	for i := 0; i < 12; i++ {
		log.Report(Lifecycle, SeverityInfo, "tick")
	}

	report := c.Report()
	assert.Len(t, report.RecentIssues, 10)
	assert.Equal(t, 12, report.Stats.TotalIssues)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"info":12`)
	assert.Contains(t, string(data), `"lifecycle":12`)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector(CollectorConfig{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Add(NewIssue(Unknown, SeverityInfo, "x", WithComponent("c")))
				_ = c.Stats()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, c.Len())
}

func TestLogger_ReportsToAllSinks(t *testing.T) {
	var buf bytes.Buffer
	slogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	registry := metric.NewMetricsRegistry()
	m, err := NewIssueMetrics(registry)
	require.NoError(t, err)

	c := NewCollector(DefaultCollectorConfig())
	log := NewLogger("reflective", c, WithSlog(slogger), WithIssueMetrics(m))

	issue := log.ReportReflectionError("Tube.Identity", errors.New("no such method"))

	assert.Equal(t, ReflectionError, issue.Type)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, "reflective", issue.Component)
	assert.Contains(t, issue.Source, "TestLogger_ReportsToAllSinks")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.Counter().WithLabelValues("reflective", "reflection_error", "error")))

	line := buf.String()
	assert.Contains(t, line, `"level":"ERROR"`)
	assert.Contains(t, line, `"component":"reflective"`)
	assert.Contains(t, line, "Reflection error accessing Tube.Identity")

	_, err = NewIssueMetrics(registry)
	assert.Error(t, err, "second registration on the same registry is a duplicate")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "DEBUG"},
		{SeverityInfo, "INFO"},
		{SeverityWarning, "WARN"},
		{SeverityError, "ERROR"},
		{SeverityCritical, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			var buf bytes.Buffer
			slogger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			NewLogger("x", nil, WithSlog(slogger)).Report(Unknown, tt.severity, "msg")
			assert.True(t, strings.Contains(buf.String(), "level="+tt.want), buf.String())
		})
	}
}

func TestLogger_Named(t *testing.T) {
	c := NewCollector(DefaultCollectorConfig())
	parent := NewLogger("migrate", c, WithoutConsole())
	child := parent.Named("adapter.composite")

	child.ReportStructuralDifference("legacy.Composite", "component.Composite")

	assert.Equal(t, "adapter.composite", child.Category())
	assert.Len(t, c.ForComponent("adapter.composite"), 1)
	assert.Same(t, c, child.Collector())
}

func TestLogger_NamedReplacesComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	slogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log := NewLogger("migrate", nil, WithSlog(slogger)).Named("direct.component").Named("translate")
	log.Report(Unknown, SeverityWarning, "msg")

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, `"component":`), line)
	assert.Contains(t, line, `"component":"translate"`)
}
