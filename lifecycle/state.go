// Package lifecycle defines the three lifecycle vocabularies bridged by the
// translation layer: the new component State, the coarse legacy Status and the
// fine-grained legacy Phase, together with the mapping tables between them.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/c360/s8rbridge/errors"
)

// State is the lifecycle state of a new-style component.
type State int

const (
	// StateConception is the first creation state
	StateConception State = iota
	// StateInitializing indicates identity and environment are being set up
	StateInitializing
	// StateConfiguring indicates configuration is being applied
	StateConfiguring
	// StateSpecializing indicates the component is taking on its role
	StateSpecializing
	// StateDevelopingFeatures is the last creation state
	StateDevelopingFeatures
	// StateReady indicates the component can be activated
	StateReady
	// StateActive indicates the component is processing
	StateActive
	// StateDegraded indicates the component is running with errors
	StateDegraded
	// StateTerminating indicates shutdown is in progress
	StateTerminating
	// StateTerminated is final
	StateTerminated
)

// Category groups states by lifecycle stage.
type Category string

// State categories
const (
	CategoryCreation    Category = "creation"
	CategoryOperational Category = "operational"
	CategoryTermination Category = "termination"
)

var stateNames = [...]string{
	StateConception:         "conception",
	StateInitializing:       "initializing",
	StateConfiguring:        "configuring",
	StateSpecializing:       "specializing",
	StateDevelopingFeatures: "developing_features",
	StateReady:              "ready",
	StateActive:             "active",
	StateDegraded:           "degraded",
	StateTerminating:        "terminating",
	StateTerminated:         "terminated",
}

// States returns every State in declaration order.
func States() []State {
	out := make([]State, 0, len(stateNames))
	for s := range stateNames {
		out = append(out, State(s))
	}
	return out
}

// String returns the lower-case name of the state
func (s State) String() string {
	if !s.valid() {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) valid() bool {
	return s >= StateConception && s <= StateTerminated
}

// Category returns the lifecycle stage the state belongs to.
func (s State) Category() Category {
	switch {
	case s <= StateDevelopingFeatures:
		return CategoryCreation
	case s <= StateDegraded:
		return CategoryOperational
	default:
		return CategoryTermination
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool { return s == StateTerminated }

// IsOperational reports whether the state is ready, active or degraded.
func (s State) IsOperational() bool { return s.Category() == CategoryOperational }

var transitions = map[State][]State{
	StateConception:         {StateInitializing, StateTerminating},
	StateInitializing:       {StateConfiguring, StateTerminating},
	StateConfiguring:        {StateSpecializing, StateTerminating},
	StateSpecializing:       {StateDevelopingFeatures, StateTerminating},
	StateDevelopingFeatures: {StateReady, StateTerminating},
	StateReady:              {StateActive, StateDegraded, StateTerminating},
	StateActive:             {StateReady, StateDegraded, StateTerminating},
	StateDegraded:           {StateActive, StateReady, StateTerminating},
	StateTerminating:        {StateTerminated},
	StateTerminated:         {},
}

// ValidTransitions returns the states reachable in one step.
func (s State) ValidTransitions() []State {
	next := transitions[s]
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s State) CanTransitionTo(target State) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TerminationPath returns the states to pass through, in order, to reach
// terminated from s. It is empty for a terminated state.
func (s State) TerminationPath() []State {
	switch s {
	case StateTerminated:
		return nil
	case StateTerminating:
		return []State{StateTerminated}
	default:
		return []State{StateTerminating, StateTerminated}
	}
}

// ParseState parses a state name, case-insensitively.
func ParseState(name string) (State, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range stateNames {
		if s == n {
			return State(i), nil
		}
	}
	return StateReady, errors.WrapInvalid(
		fmt.Errorf("%w: state %q", errors.ErrUnknownType, name), "lifecycle", "ParseState", "state lookup")
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
