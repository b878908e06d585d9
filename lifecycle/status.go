package lifecycle

import (
	"fmt"
	"strings"

	"github.com/c360/s8rbridge/errors"
)

// Status is the coarse legacy lifecycle signal.
type Status int

// Legacy statuses
const (
	StatusInitializing Status = iota
	StatusReady
	StatusActive
	StatusDeactivating
	StatusTerminated
	StatusError
	StatusRecovering
)

var statusNames = [...]string{
	StatusInitializing: "initializing",
	StatusReady:        "ready",
	StatusActive:       "active",
	StatusDeactivating: "deactivating",
	StatusTerminated:   "terminated",
	StatusError:        "error",
	StatusRecovering:   "recovering",
}

// Statuses returns every Status in declaration order.
func Statuses() []Status {
	out := make([]Status, 0, len(statusNames))
	for s := range statusNames {
		out = append(out, Status(s))
	}
	return out
}

// String returns the lower-case name of the status
func (s Status) String() string {
	if s < StatusInitializing || s > StatusRecovering {
		return "unknown"
	}
	return statusNames[s]
}

// ParseStatus parses a legacy status name, case-insensitively. Legacy code
// often spells them in upper case.
func ParseStatus(name string) (Status, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range statusNames {
		if s == n {
			return Status(i), nil
		}
	}
	return StatusReady, errors.WrapInvalid(
		fmt.Errorf("%w: status %q", errors.ErrUnknownType, name), "lifecycle", "ParseStatus", "status lookup")
}

// Phase is the fine-grained legacy construction-time lifecycle signal.
type Phase int

// Legacy phases
const (
	PhaseConception Phase = iota
	PhaseInitializing
	PhaseConfiguring
	PhaseSpecializing
	PhaseDevelopingFeatures
	PhaseReady
	PhaseTerminating
	PhaseTerminated
)

var phaseNames = [...]string{
	PhaseConception:         "conception",
	PhaseInitializing:       "initializing",
	PhaseConfiguring:        "configuring",
	PhaseSpecializing:       "specializing",
	PhaseDevelopingFeatures: "developing_features",
	PhaseReady:              "ready",
	PhaseTerminating:        "terminating",
	PhaseTerminated:         "terminated",
}

// Phases returns every Phase in declaration order.
func Phases() []Phase {
	out := make([]Phase, 0, len(phaseNames))
	for p := range phaseNames {
		out = append(out, Phase(p))
	}
	return out
}

// String returns the lower-case name of the phase
func (p Phase) String() string {
	if p < PhaseConception || p > PhaseTerminated {
		return "unknown"
	}
	return phaseNames[p]
}

// ParsePhase parses a legacy phase name, case-insensitively.
func ParsePhase(name string) (Phase, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, p := range phaseNames {
		if p == n {
			return Phase(i), nil
		}
	}
	return PhaseReady, errors.WrapInvalid(
		fmt.Errorf("%w: phase %q", errors.ErrUnknownType, name), "lifecycle", "ParsePhase", "phase lookup")
}
