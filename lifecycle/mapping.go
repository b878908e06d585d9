package lifecycle

import "slices"

// The tables below are exhaustive over their source vocabulary. StatusToState
// and StateToPhase are many-to-one: round trips through them lose information.

// StatusToState maps legacy statuses onto new states.
var StatusToState = map[Status]State{
	StatusInitializing: StateInitializing,
	StatusReady:        StateReady,
	StatusActive:       StateActive,
	StatusDeactivating: StateTerminating,
	StatusTerminated:   StateTerminated,
	StatusError:        StateDegraded,
	StatusRecovering:   StateDegraded,
}

// StateToStatus maps new states onto legacy statuses.
var StateToStatus = map[State]Status{
	StateConception:         StatusInitializing,
	StateInitializing:       StatusInitializing,
	StateConfiguring:        StatusInitializing,
	StateSpecializing:       StatusInitializing,
	StateDevelopingFeatures: StatusInitializing,
	StateReady:              StatusReady,
	StateActive:             StatusActive,
	StateDegraded:           StatusError,
	StateTerminating:        StatusDeactivating,
	StateTerminated:         StatusTerminated,
}

// StateToPhase maps new states onto legacy phases.
var StateToPhase = map[State]Phase{
	StateConception:         PhaseConception,
	StateInitializing:       PhaseInitializing,
	StateConfiguring:        PhaseConfiguring,
	StateSpecializing:       PhaseSpecializing,
	StateDevelopingFeatures: PhaseDevelopingFeatures,
	StateReady:              PhaseReady,
	StateActive:             PhaseReady,
	StateDegraded:           PhaseReady,
	StateTerminating:        PhaseTerminating,
	StateTerminated:         PhaseTerminated,
}

// PhaseToState maps legacy phases onto their namesake states.
var PhaseToState = map[Phase]State{
	PhaseConception:         StateConception,
	PhaseInitializing:       StateInitializing,
	PhaseConfiguring:        StateConfiguring,
	PhaseSpecializing:       StateSpecializing,
	PhaseDevelopingFeatures: StateDevelopingFeatures,
	PhaseReady:              StateReady,
	PhaseTerminating:        StateTerminating,
	PhaseTerminated:         StateTerminated,
}

// LookupState returns the new state for a legacy status.
func LookupState(s Status) (State, bool) {
	st, ok := StatusToState[s]
	return st, ok
}

// LookupStatus returns the legacy status for a new state.
func LookupStatus(s State) (Status, bool) {
	st, ok := StateToStatus[s]
	return st, ok
}

// LookupPhase returns the legacy phase for a new state.
func LookupPhase(s State) (Phase, bool) {
	p, ok := StateToPhase[s]
	return p, ok
}

// LookupPhaseState returns the new state for a legacy phase.
func LookupPhaseState(p Phase) (State, bool) {
	st, ok := PhaseToState[p]
	return st, ok
}

// Collisions lists every new state that more than one legacy status maps to.
// Statuses are sorted in declaration order.
func Collisions() map[State][]Status {
	bucket := make(map[State][]Status)
	for status, state := range StatusToState {
		bucket[state] = append(bucket[state], status)
	}
	out := make(map[State][]Status)
	for state, statuses := range bucket {
		if len(statuses) > 1 {
			slices.Sort(statuses)
			out[state] = statuses
		}
	}
	return out
}

// CollidesWith returns the other statuses that share s's target state.
func CollidesWith(s Status) []Status {
	target, ok := StatusToState[s]
	if !ok {
		return nil
	}
	var others []Status
	for _, other := range Collisions()[target] {
		if other != s {
			others = append(others, other)
		}
	}
	return others
}

// Disagreement reports whether a legacy status and phase describe different
// lifecycle positions. The phase vocabulary has no active or degraded entry,
// so PhaseReady agrees with any operational status.
func Disagreement(status Status, phase Phase) bool {
	fromStatus, ok := StatusToState[status]
	if !ok {
		return true
	}
	fromPhase, ok := PhaseToState[phase]
	if !ok {
		return true
	}
	if phase == PhaseReady {
		return !fromStatus.IsOperational()
	}
	if status == StatusInitializing {
		return fromPhase.Category() != CategoryCreation
	}
	return fromStatus != fromPhase
}

// IsInvalidTransition reports legacy status transitions that skip a required
// intermediate step. It is advisory: callers report, they never block.
func IsInvalidTransition(from, to Status) bool {
	if from == StatusActive && to == StatusTerminated {
		return true
	}
	return from == StatusTerminated && to != StatusTerminated
}
