package feedback

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// CollectorConfig bounds what a Collector keeps.
type CollectorConfig struct {
	// MinSeverity drops issues below this level.
	MinSeverity Severity
	// MaxIssuesPerComponent caps debug and info issues kept per component;
	// 0 means unlimited. Warnings and worse are always kept.
	MaxIssuesPerComponent int
	// RecommendationThreshold is the number of matching issues needed before a
	// pattern produces a recommendation.
	RecommendationThreshold int
	// DisableRecommendations turns Recommendations into a no-op.
	DisableRecommendations bool
}

// DefaultCollectorConfig keeps everything and recommends after three repeats.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		MinSeverity:             SeverityDebug,
		MaxIssuesPerComponent:   100,
		RecommendationThreshold: 3,
	}
}

// Stats summarizes a Collector's contents.
type Stats struct {
	TotalIssues        int               `json:"total_issues" yaml:"total_issues"`
	AffectedComponents int               `json:"affected_components" yaml:"affected_components"`
	BySeverity         map[Severity]int  `json:"by_severity" yaml:"by_severity"`
	ByType             map[IssueType]int `json:"by_type" yaml:"by_type"`
	Dropped            int               `json:"dropped" yaml:"dropped"`
}

// Recommendation is a suggested fix for a repeated pattern of issues.
type Recommendation struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Solution    string   `json:"solution" yaml:"solution"`
	Severity    Severity `json:"severity" yaml:"severity"`
	IssueCount  int      `json:"issue_count" yaml:"issue_count"`
}

// Ranked pairs a key with a count, highest count first in returned slices.
type Ranked[K comparable] struct {
	Key   K   `json:"key" yaml:"key"`
	Count int `json:"count" yaml:"count"`
}

// Report is the serializable snapshot of a Collector.
type Report struct {
	GeneratedAt     time.Time           `json:"generated_at" yaml:"generated_at"`
	Stats           Stats               `json:"stats" yaml:"stats"`
	TopTypes        []Ranked[IssueType] `json:"top_types" yaml:"top_types"`
	TopComponents   []Ranked[string]    `json:"top_components" yaml:"top_components"`
	Recommendations []Recommendation    `json:"recommendations" yaml:"recommendations"`
	RecentIssues    []Issue             `json:"recent_issues" yaml:"recent_issues"`
}

// Collector aggregates issues reported by Loggers. A Collector is scoped to
// whatever owns it; there is no process-wide instance.
type Collector struct {
	mu          sync.RWMutex
	config      CollectorConfig
	issues      []Issue
	byComponent map[string][]int
	advisory    map[string]int
	byType      map[IssueType][]int
	bySeverity  map[Severity][]int
	dropped     int
}

// NewCollector creates an empty Collector.
func NewCollector(cfg CollectorConfig) *Collector {
	c := &Collector{config: cfg}
	c.reset()
	return c
}

func (c *Collector) reset() {
	c.issues = nil
	c.byComponent = make(map[string][]int)
	c.advisory = make(map[string]int)
	c.byType = make(map[IssueType][]int)
	c.bySeverity = make(map[Severity][]int)
	c.dropped = 0
}

// Config returns the active configuration.
func (c *Collector) Config() CollectorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Configure replaces the configuration. Already collected issues are kept.
func (c *Collector) Configure(cfg CollectorConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = cfg
}

// Add records an issue and reports whether it was kept. Issues below the
// minimum severity are dropped, as are debug and info issues once their
// component holds MaxIssuesPerComponent of them.
func (c *Collector) Add(issue Issue) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !issue.Severity.AtLeast(c.config.MinSeverity) {
		c.dropped++
		return false
	}
	capped := issue.Component != "" && !issue.Severity.AtLeast(SeverityWarning)
	if capped && c.config.MaxIssuesPerComponent > 0 &&
		c.advisory[issue.Component] >= c.config.MaxIssuesPerComponent {
		c.dropped++
		return false
	}
	if capped {
		c.advisory[issue.Component]++
	}

	idx := len(c.issues)
	c.issues = append(c.issues, issue.clone())
	if issue.Component != "" {
		c.byComponent[issue.Component] = append(c.byComponent[issue.Component], idx)
	}
	c.byType[issue.Type] = append(c.byType[issue.Type], idx)
	c.bySeverity[issue.Severity] = append(c.bySeverity[issue.Severity], idx)
	return true
}

// Clear discards every collected issue.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Len returns the number of kept issues.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.issues)
}

// Issues returns every kept issue in arrival order.
func (c *Collector) Issues() []Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Issue, len(c.issues))
	for i, issue := range c.issues {
		out[i] = issue.clone()
	}
	return out
}

func (c *Collector) pick(idx []int) []Issue {
	out := make([]Issue, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.issues[i].clone())
	}
	return out
}

// ByType returns issues of the given type.
func (c *Collector) ByType(t IssueType) []Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pick(c.byType[t])
}

// BySeverity returns issues of exactly the given severity.
func (c *Collector) BySeverity(s Severity) []Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pick(c.bySeverity[s])
}

// ForComponent returns issues reported under the given component.
func (c *Collector) ForComponent(component string) []Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pick(c.byComponent[component])
}

// AtLeast returns issues at or above min.
func (c *Collector) AtLeast(min Severity) []Issue {
	return c.filter(func(i Issue) bool { return i.Severity.AtLeast(min) })
}

// ByProperty returns issues naming the given property.
func (c *Collector) ByProperty(property string) []Issue {
	return c.filter(func(i Issue) bool { return i.Property == property })
}

func (c *Collector) filter(keep func(Issue) bool) []Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Issue
	for _, issue := range c.issues {
		if keep(issue) {
			out = append(out, issue.clone())
		}
	}
	return out
}

// Stats returns counts by severity and type. Every severity and type is
// present in the maps, with zero counts included.
func (c *Collector) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		TotalIssues:        len(c.issues),
		AffectedComponents: len(c.byComponent),
		BySeverity:         make(map[Severity]int),
		ByType:             make(map[IssueType]int),
		Dropped:            c.dropped,
	}
	for _, s := range Severities() {
		stats.BySeverity[s] = len(c.bySeverity[s])
	}
	for _, t := range IssueTypes() {
		stats.ByType[t] = len(c.byType[t])
	}
	return stats
}

// MostCommonTypes returns up to n issue types ordered by count.
func (c *Collector) MostCommonTypes(n int) []Ranked[IssueType] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return topN(c.byType, n)
}

// MostAffectedComponents returns up to n components ordered by issue count.
func (c *Collector) MostAffectedComponents(n int) []Ranked[string] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return topN(c.byComponent, n)
}

func topN[K cmp.Ordered](index map[K][]int, n int) []Ranked[K] {
	out := make([]Ranked[K], 0, len(index))
	for k, idx := range index {
		if len(idx) > 0 {
			out = append(out, Ranked[K]{Key: k, Count: len(idx)})
		}
	}
	slices.SortFunc(out, func(a, b Ranked[K]) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Recommendations groups repeated type mismatches by value pair and repeated
// state-transition issues by "from->to", and suggests a fix for every group
// reaching the threshold. Results are ordered by issue count.
func (c *Collector) Recommendations() []Recommendation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config.DisableRecommendations {
		return nil
	}
	threshold := max(c.config.RecommendationThreshold, 1)

	var recs []Recommendation

	mismatches := make(map[[2]string]int)
	for _, i := range c.byType[TypeMismatch] {
		issue := c.issues[i]
		if issue.LegacyValue != "" && issue.NewValue != "" {
			mismatches[[2]string{issue.LegacyValue, issue.NewValue}]++
		}
	}
	for pair, n := range mismatches {
		if n < threshold {
			continue
		}
		recs = append(recs, Recommendation{
			ID:          fmt.Sprintf("type_mismatch_%s_%s", pair[0], pair[1]),
			Description: fmt.Sprintf("Type mismatch between %s and %s", pair[0], pair[1]),
			Solution:    fmt.Sprintf("Register a converter that maps %s to %s consistently", pair[0], pair[1]),
			Severity:    SeverityWarning,
			IssueCount:  n,
		})
	}

	transitions := make(map[[2]string]int)
	for _, i := range c.byType[StateTransition] {
		issue := c.issues[i]
		if issue.LegacyValue != "" && issue.NewValue != "" {
			transitions[[2]string{issue.LegacyValue, issue.NewValue}]++
		}
	}
	for pair, n := range transitions {
		if n < threshold {
			continue
		}
		recs = append(recs, Recommendation{
			ID:          fmt.Sprintf("state_transition_%s_%s", pair[0], pair[1]),
			Description: fmt.Sprintf("Invalid state transition from %s to %s", pair[0], pair[1]),
			Solution: fmt.Sprintf("Route %s->%s through the intermediate legacy status before translating",
				pair[0], pair[1]),
			Severity:   SeverityWarning,
			IssueCount: n,
		})
	}

	slices.SortFunc(recs, func(a, b Recommendation) int {
		if a.IssueCount != b.IssueCount {
			return b.IssueCount - a.IssueCount
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return recs
}

// Report snapshots the collector. RecentIssues holds the ten most recent issues,
// newest first.
func (c *Collector) Report() Report {
	issues := c.Issues()
	slices.SortStableFunc(issues, func(a, b Issue) int { return b.Timestamp.Compare(a.Timestamp) })
	if len(issues) > 10 {
		issues = issues[:10]
	}
	return Report{
		GeneratedAt:     time.Now().UTC(),
		Stats:           c.Stats(),
		TopTypes:        c.MostCommonTypes(5),
		TopComponents:   c.MostAffectedComponents(10),
		Recommendations: c.Recommendations(),
		RecentIssues:    issues,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
