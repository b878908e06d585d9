package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
)

func TestStatusToState(t *testing.T) {
	tests := []struct {
		status Status
		want   State
	}{
		{StatusInitializing, StateInitializing},
		{StatusReady, StateReady},
		{StatusActive, StateActive},
		{StatusDeactivating, StateTerminating},
		{StatusTerminated, StateTerminated},
		{StatusError, StateDegraded},
		{StatusRecovering, StateDegraded},
	}
	require.Len(t, StatusToState, len(Statuses()), "table must be exhaustive")

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			got, ok := LookupState(tt.status)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateToStatus(t *testing.T) {
	tests := []struct {
		state State
		want  Status
	}{
		{StateConception, StatusInitializing},
		{StateInitializing, StatusInitializing},
		{StateConfiguring, StatusInitializing},
		{StateSpecializing, StatusInitializing},
		{StateDevelopingFeatures, StatusInitializing},
		{StateReady, StatusReady},
		{StateActive, StatusActive},
		{StateDegraded, StatusError},
		{StateTerminating, StatusDeactivating},
		{StateTerminated, StatusTerminated},
	}
	require.Len(t, StateToStatus, len(States()))

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			got, ok := LookupStatus(tt.state)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateToPhase(t *testing.T) {
	require.Len(t, StateToPhase, len(States()))

	for _, s := range []State{StateReady, StateActive, StateDegraded} {
		p, ok := LookupPhase(s)
		require.True(t, ok)
		assert.Equal(t, PhaseReady, p, s.String())
	}

	p, _ := LookupPhase(StateDevelopingFeatures)
	assert.Equal(t, PhaseDevelopingFeatures, p)
	p, _ = LookupPhase(StateTerminating)
	assert.Equal(t, PhaseTerminating, p)
}

func TestPhaseToState_IsTotalAndNamesake(t *testing.T) {
	for _, p := range Phases() {
		s, ok := LookupPhaseState(p)
		require.True(t, ok, p.String())
		assert.Equal(t, p.String(), s.String())
	}
}

func TestLookup_UnmappedValues(t *testing.T) {
	_, ok := LookupState(Status(99))
	assert.False(t, ok)
	_, ok = LookupStatus(State(-1))
	assert.False(t, ok)
	_, ok = LookupPhase(State(42))
	assert.False(t, ok)
	assert.Equal(t, "unknown", State(42).String())
}

func TestCollisions(t *testing.T) {
	collisions := Collisions()

	require.Len(t, collisions, 1)
	assert.Equal(t, []Status{StatusError, StatusRecovering}, collisions[StateDegraded])

	assert.Equal(t, []Status{StatusRecovering}, CollidesWith(StatusError))
	assert.Empty(t, CollidesWith(StatusActive))
}

func TestLossyRoundTrip(t *testing.T) {
	back := StateToStatus[StatusToState[StatusRecovering]]
	assert.Equal(t, StatusError, back, "recovering collapses to error via degraded")

	forward := StatusToState[StateToStatus[StateConfiguring]]
	assert.Equal(t, StateInitializing, forward)
}

func TestIsInvalidTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusTerminated, true},
		{StatusTerminated, StatusActive, true},
		{StatusTerminated, StatusReady, true},
		{StatusTerminated, StatusTerminated, false},
		{StatusReady, StatusActive, false},
		{StatusActive, StatusDeactivating, false},
		{StatusDeactivating, StatusTerminated, false},
		{StatusError, StatusRecovering, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalidTransition(tt.from, tt.to))
		})
	}
}

func TestDisagreement(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		phase  Phase
		want   bool
	}{
		{"ready/ready", StatusReady, PhaseReady, false},
		{"active/ready", StatusActive, PhaseReady, false},
		{"error/ready", StatusError, PhaseReady, false},
		{"initializing/configuring", StatusInitializing, PhaseConfiguring, false},
		{"deactivating/terminating", StatusDeactivating, PhaseTerminating, false},
		{"active/conception", StatusActive, PhaseConception, true},
		{"terminated/ready", StatusTerminated, PhaseReady, true},
		{"initializing/terminated", StatusInitializing, PhaseTerminated, true},
		{"unknown status", Status(77), PhaseReady, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Disagreement(tt.status, tt.phase))
		})
	}
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateReady.CanTransitionTo(StateActive))
	assert.True(t, StateActive.CanTransitionTo(StateDegraded))
	assert.True(t, StateDegraded.CanTransitionTo(StateActive))
	assert.True(t, StateConception.CanTransitionTo(StateTerminating))
	assert.False(t, StateConception.CanTransitionTo(StateActive))
	assert.False(t, StateActive.CanTransitionTo(StateTerminated))
	assert.Empty(t, StateTerminated.ValidTransitions())
	assert.True(t, StateTerminated.IsTerminal())
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryCreation, StateSpecializing.Category())
	assert.Equal(t, CategoryOperational, StateDegraded.Category())
	assert.Equal(t, CategoryTermination, StateTerminating.Category())
	assert.True(t, StateReady.IsOperational())
	assert.False(t, StateConception.IsOperational())
}

func TestParse(t *testing.T) {
	s, err := ParseState("DEVELOPING_FEATURES")
	require.NoError(t, err)
	assert.Equal(t, StateDevelopingFeatures, s)

	st, err := ParseStatus(" Recovering ")
	require.NoError(t, err)
	assert.Equal(t, StatusRecovering, st)

	p, err := ParsePhase("terminating")
	require.NoError(t, err)
	assert.Equal(t, PhaseTerminating, p)

	_, err = ParseStatus("HIBERNATING")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.ErrorIs(t, err, errors.ErrUnknownType)
}

func TestStateText(t *testing.T) {
	text, err := StateDegraded.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "degraded", string(text))

	var s State
	require.NoError(t, s.UnmarshalText([]byte("active")))
	assert.Equal(t, StateActive, s)
	assert.Error(t, s.UnmarshalText([]byte("bogus")))
}

func TestTerminationPath(t *testing.T) {
	assert.Empty(t, StateTerminated.TerminationPath())
	assert.Equal(t, []State{StateTerminated}, StateTerminating.TerminationPath())
	assert.Equal(t, []State{StateTerminating, StateTerminated}, StateActive.TerminationPath())

	for _, s := range States() {
		from := s
		for _, next := range s.TerminationPath() {
			assert.True(t, from.CanTransitionTo(next), "%s -> %s", from, next)
			from = next
		}
	}
}
