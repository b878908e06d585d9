// Package translate converts identities and lifecycle values between the
// legacy and new component families. Unmapped values never fail: they fall
// back to ready and are reported as migration issues.
package translate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
)

// Translator maps identities and lifecycle values, reporting anything lossy
// or unmapped through its feedback logger.
type Translator struct {
	issues *feedback.Logger
	// collisions holds the statuses whose lossy mapping was already reported.
	collisions sync.Map
}

// New creates a Translator. A nil logger reports into a private collector.
func New(issues *feedback.Logger) *Translator {
	if issues == nil {
		issues = feedback.NewLogger("translate", feedback.NewCollector(feedback.DefaultCollectorConfig()))
	}
	return &Translator{issues: issues}
}

// Issues returns the logger the translator reports to.
func (t *Translator) Issues() *feedback.Logger { return t.issues }

// ToComponentID rebuilds a ComponentID from raw legacy identity fields.
func (t *Translator) ToComponentID(id, reason string, lineage []string) (identity.ComponentID, error) {
	cid, err := identity.FromValues(id, reason, lineage)
	if err != nil {
		t.issues.ReportPropertyNotFound("uniqueId")
		return identity.ComponentID{}, err
	}
	return cid, nil
}

// ToLegacyIDString returns the id token legacy code keys on.
func (t *Translator) ToLegacyIDString(cid identity.ComponentID) string {
	return cid.ID()
}

// ToLegacyStatus maps a new state to a legacy status.
func (t *Translator) ToLegacyStatus(s lifecycle.State) lifecycle.Status {
	status, ok := lifecycle.LookupStatus(s)
	if !ok {
		t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
			fmt.Sprintf("No legacy status for state %s, using ready", s),
			feedback.WithValues("", s.String()))
		return lifecycle.StatusReady
	}
	return status
}

// ToLegacyPhase maps a new state to a legacy phase.
func (t *Translator) ToLegacyPhase(s lifecycle.State) lifecycle.Phase {
	phase, ok := lifecycle.LookupPhase(s)
	if !ok {
		t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
			fmt.Sprintf("No legacy phase for state %s, using ready", s),
			feedback.WithValues("", s.String()))
		return lifecycle.PhaseReady
	}
	return phase
}

// ToLifecycleState maps a legacy status to a new state. A status that shares
// its target with another status is reported once per translator at debug
// level because the reverse mapping cannot recover it.
func (t *Translator) ToLifecycleState(s lifecycle.Status) lifecycle.State {
	state, ok := lifecycle.LookupState(s)
	if !ok {
		t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
			fmt.Sprintf("No state for legacy status %s, using ready", s),
			feedback.WithValues(s.String(), ""))
		return lifecycle.StateReady
	}
	if _, seen := t.collisions.Load(s); seen {
		return state
	}
	if others := lifecycle.CollidesWith(s); len(others) > 0 {
		if _, seen := t.collisions.LoadOrStore(s, struct{}{}); seen {
			return state
		}
		names := make([]string, len(others))
		for i, o := range others {
			names[i] = o.String()
		}
		t.issues.Report(feedback.StateTransition, feedback.SeverityDebug,
			fmt.Sprintf("Legacy status %s maps to %s, shared with %s", s, state, strings.Join(names, ", ")),
			feedback.WithValues(s.String(), state.String()),
			feedback.WithContext("collision", "true"))
	}
	return state
}

// PhaseToState maps a legacy phase to its namesake state.
func (t *Translator) PhaseToState(p lifecycle.Phase) lifecycle.State {
	state, ok := lifecycle.LookupPhaseState(p)
	if !ok {
		t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
			fmt.Sprintf("No state for legacy phase %s, using ready", p),
			feedback.WithValues(p.String(), ""))
		return lifecycle.StateReady
	}
	return state
}

// ParseLegacyStatus parses a legacy status name. Unknown names become ready.
func (t *Translator) ParseLegacyStatus(name string) lifecycle.Status {
	status, err := lifecycle.ParseStatus(name)
	if err != nil {
		t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
			fmt.Sprintf("Unknown legacy status %q, using ready", name),
			feedback.WithValues(name, lifecycle.StatusReady.String()))
		return lifecycle.StatusReady
	}
	return status
}

// IsInvalidTransition reports whether from->to skips a required legacy step,
// recording a state_transition issue when it does. It never blocks.
func (t *Translator) IsInvalidTransition(from, to lifecycle.Status) bool {
	if !lifecycle.IsInvalidTransition(from, to) {
		return false
	}
	reason := "terminated is final"
	if from == lifecycle.StatusActive {
		reason = "must pass through deactivating"
	}
	t.issues.ReportStateTransition(from.String(), to.String(), reason)
	return true
}

// CheckConsistency reports when a tube's status and phase disagree and
// returns whether they agree.
func (t *Translator) CheckConsistency(status lifecycle.Status, phase lifecycle.Phase) bool {
	if !lifecycle.Disagreement(status, phase) {
		return true
	}
	t.issues.Report(feedback.StateTransition, feedback.SeverityWarning,
		fmt.Sprintf("Legacy status %s disagrees with phase %s", status, phase),
		feedback.WithValues(status.String(), phase.String()),
		feedback.WithProperty("phase"))
	return false
}
