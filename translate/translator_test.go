package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
)

func newTranslator() (*Translator, *feedback.Collector) {
	c := feedback.NewCollector(feedback.DefaultCollectorConfig())
	return New(feedback.NewLogger("translate", c, feedback.WithoutConsole())), c
}

func TestToComponentID(t *testing.T) {
	tr, c := newTranslator()

	cid, err := tr.ToComponentID("abc", "reason", []string{"p"})
	require.NoError(t, err)
	assert.Equal(t, "abc", tr.ToLegacyIDString(cid))
	assert.Equal(t, []string{"p"}, cid.Lineage())

	_, err = tr.ToComponentID("", "reason", nil)
	assert.True(t, errors.IsInvalid(err))
	assert.Len(t, c.ByType(feedback.MissingProperty), 1)
}

func TestToLegacyIDString_RoundTrip(t *testing.T) {
	tr, _ := newTranslator()
	original := identity.MustFromValues("tube-7", "r", nil)

	back, err := tr.ToComponentID(tr.ToLegacyIDString(original), original.Reason(), original.Lineage())
	require.NoError(t, err)
	assert.True(t, original.Equal(back))
}

func TestToLifecycleState(t *testing.T) {
	tr, c := newTranslator()

	assert.Equal(t, lifecycle.StateTerminating, tr.ToLifecycleState(lifecycle.StatusDeactivating))
	assert.Equal(t, 0, c.Len(), "non-colliding mapping is silent")

	assert.Equal(t, lifecycle.StateDegraded, tr.ToLifecycleState(lifecycle.StatusRecovering))
	debug := c.BySeverity(feedback.SeverityDebug)
	require.Len(t, debug, 1)
	assert.Contains(t, debug[0].Message, "shared with error")

	assert.Equal(t, lifecycle.StateReady, tr.ToLifecycleState(lifecycle.Status(42)))
	assert.Len(t, c.BySeverity(feedback.SeverityWarning), 1)
}

func TestToLegacyStatusAndPhase(t *testing.T) {
	tr, c := newTranslator()

	assert.Equal(t, lifecycle.StatusError, tr.ToLegacyStatus(lifecycle.StateDegraded))
	assert.Equal(t, lifecycle.PhaseReady, tr.ToLegacyPhase(lifecycle.StateActive))
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, lifecycle.StatusReady, tr.ToLegacyStatus(lifecycle.State(99)))
	assert.Equal(t, lifecycle.PhaseReady, tr.ToLegacyPhase(lifecycle.State(99)))
	assert.Len(t, c.BySeverity(feedback.SeverityWarning), 2)

	assert.Equal(t, lifecycle.StateConfiguring, tr.PhaseToState(lifecycle.PhaseConfiguring))
}

func TestParseLegacyStatus(t *testing.T) {
	tr, c := newTranslator()

	assert.Equal(t, lifecycle.StatusDeactivating, tr.ParseLegacyStatus("DEACTIVATING"))
	assert.Equal(t, lifecycle.StatusReady, tr.ParseLegacyStatus("HIBERNATING"))

	issues := c.ByType(feedback.StateTransition)
	require.Len(t, issues, 1)
	assert.Equal(t, "HIBERNATING", issues[0].LegacyValue)
}

func TestIsInvalidTransition(t *testing.T) {
	tr, c := newTranslator()

	assert.True(t, tr.IsInvalidTransition(lifecycle.StatusActive, lifecycle.StatusTerminated))
	assert.False(t, tr.IsInvalidTransition(lifecycle.StatusReady, lifecycle.StatusActive))
	assert.True(t, tr.IsInvalidTransition(lifecycle.StatusTerminated, lifecycle.StatusReady))

	issues := c.ByType(feedback.StateTransition)
	require.Len(t, issues, 2)
	assert.Equal(t, "active", issues[0].LegacyValue)
	assert.Equal(t, "terminated", issues[0].NewValue)
	assert.Contains(t, issues[0].Message, "deactivating")
}

func TestCheckConsistency(t *testing.T) {
	tr, c := newTranslator()

	assert.True(t, tr.CheckConsistency(lifecycle.StatusActive, lifecycle.PhaseReady))
	assert.False(t, tr.CheckConsistency(lifecycle.StatusTerminated, lifecycle.PhaseReady))
	assert.Len(t, c.ByProperty("phase"), 1)
}

func TestNew_NilLogger(t *testing.T) {
	tr := New(nil)
	require.NotNil(t, tr.Issues())
	assert.Equal(t, lifecycle.StateReady, tr.ToLifecycleState(lifecycle.Status(-3)))
	assert.Equal(t, 1, tr.Issues().Collector().Len())
}

func TestToLifecycleState_ReportsEachCollisionOnce(t *testing.T) {
	tr, c := newTranslator()

	for i := 0; i < 5; i++ {
		assert.Equal(t, lifecycle.StateDegraded, tr.ToLifecycleState(lifecycle.StatusError))
		assert.Equal(t, lifecycle.StateDegraded, tr.ToLifecycleState(lifecycle.StatusRecovering))
	}
	assert.Len(t, c.BySeverity(feedback.SeverityDebug), 2)

	fresh, fc := newTranslator()
	fresh.ToLifecycleState(lifecycle.StatusError)
	assert.Len(t, fc.BySeverity(feedback.SeverityDebug), 1, "collisions are tracked per translator")
}
