package direct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
)

var (
	_ port.ComponentPort = (*TubeComponent)(nil)
	_ component.Unit     = (*TubeComponent)(nil)
)

func newAdapter() (*ComponentAdapter, *feedback.Collector) {
	c := feedback.NewCollector(feedback.DefaultCollectorConfig())
	return NewComponentAdapter(feedback.NewLogger("direct-test", c, feedback.WithoutConsole())), c
}

func TestIdentityConverter(t *testing.T) {
	a, c := newAdapter()
	ids := a.Identities()
	env := legacy.NewEnvironment(map[string]string{"zone": "a"})

	adam, err := ids.CreateAdam("root", env)
	require.NoError(t, err)
	child, err := ids.CreateChild("leaf", env, adam)
	require.NoError(t, err)

	cid, err := ids.ToComponentID(child)
	require.NoError(t, err)
	assert.Equal(t, child.UniqueID(), ids.ToLegacyIDString(cid))
	assert.Equal(t, []string{adam.UniqueID()}, cid.Lineage())

	fields, err := ids.Extract(child)
	require.NoError(t, err)
	assert.Equal(t, "leaf", fields["reason"])
	assert.Equal(t, false, fields["isAdam"])
	assert.Equal(t, map[string]string{"zone": "a"}, fields["environmentContext"])

	require.NoError(t, ids.AddToLineage(child, "audit"))
	lineage, err := ids.Lineage(child)
	require.NoError(t, err)
	assert.Equal(t, []string{adam.UniqueID(), "audit"}, lineage)

	require.NoError(t, ids.AddEnvironmentContext(adam, "k", "v"))
	ctx, err := ids.EnvironmentContext(adam)
	require.NoError(t, err)
	assert.Equal(t, "v", ctx["k"])

	isAdam, err := ids.IsAdam(adam)
	require.NoError(t, err)
	assert.True(t, isAdam)

	assert.Equal(t, 0, c.Len())
}

func TestIdentityConverter_NilArguments(t *testing.T) {
	a, c := newAdapter()
	ids := a.Identities()

	_, err := ids.ToComponentID(nil)
	assert.True(t, errors.IsTypeMismatch(err))
	_, err = ids.CreateAdam("r", nil)
	assert.True(t, errors.IsTypeMismatch(err))
	_, err = ids.CreateChild("r", legacy.NewEnvironment(nil), nil)
	assert.True(t, errors.IsTypeMismatch(err))
	_, err = ids.FromTube(nil)
	assert.True(t, errors.IsTypeMismatch(err))

	assert.Len(t, c.ByType(feedback.TypeMismatch), 4)
}

func TestEnvironmentConverter(t *testing.T) {
	a, c := newAdapter()
	envs := a.Environments()

	env := envs.CreateNamed("ingest", map[string]string{"region": "eu"})
	params, err := envs.Parameters(env)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "ingest", "region": "eu"}, params)

	modern := envs.FromLegacy(env)
	v, ok := modern.Parameter("region")
	assert.True(t, ok)
	assert.Equal(t, "eu", v)

	back := envs.ToLegacy(modern)
	assert.Equal(t, params, back.Parameters())

	assert.Empty(t, envs.FromLegacy(nil).Parameters())
	assert.Empty(t, envs.ToLegacy(nil).Parameters())
	assert.Len(t, c.ByType(feedback.MissingProperty), 2)

	_, err = envs.Parameters(nil)
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestComponentAdapter_Create(t *testing.T) {
	a, _ := newAdapter()

	tube, err := a.Create("intake", "source", "read sensors")
	require.NoError(t, err)
	assert.Equal(t, "intake", tube.Name())
	assert.Equal(t, "source", tube.Environment().Parameter("type"))
	assert.Equal(t, lifecycle.StatusReady, tube.Status())

	child, err := a.CreateChild("parse", tube)
	require.NoError(t, err)
	assert.Equal(t, []string{tube.UniqueID()}, child.Lineage())

	_, err = a.Create("x", "y", "")
	assert.True(t, errors.IsInitializationFailure(err))

	_, err = a.CreateChild("orphan", nil)
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestComponentAdapter_SetStateNeverBlocks(t *testing.T) {
	a, c := newAdapter()
	tube, err := a.Create("t", "k", "r")
	require.NoError(t, err)

	require.NoError(t, a.SetState(tube, lifecycle.StateActive))
	assert.Equal(t, lifecycle.StatusActive, tube.Status())
	assert.Equal(t, lifecycle.PhaseReady, tube.Phase())

	require.NoError(t, a.SetState(tube, lifecycle.StateTerminated))
	assert.Equal(t, lifecycle.StatusTerminated, tube.Status(), "applied despite skipping deactivating")
	assert.Equal(t, lifecycle.PhaseTerminated, tube.Phase())

	issues := c.ByType(feedback.StateTransition)
	require.Len(t, issues, 1)
	assert.Equal(t, "active", issues[0].LegacyValue)
	assert.Equal(t, "terminated", issues[0].NewValue)
}

func TestComponentAdapter_State(t *testing.T) {
	a, c := newAdapter()
	tube, err := a.Create("t", "k", "r")
	require.NoError(t, err)

	tube.SetStatus(lifecycle.StatusInitializing)
	tube.SetPhase(lifecycle.PhaseConfiguring)
	s, err := a.State(tube)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateConfiguring, s, "phase refines an initializing status")

	tube.SetStatus(lifecycle.StatusRecovering)
	tube.SetPhase(lifecycle.PhaseReady)
	s, err = a.State(tube)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateDegraded, s)

	tube.SetStatus(lifecycle.StatusTerminated)
	s, err = a.State(tube)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateTerminated, s)
	assert.NotEmpty(t, c.ByProperty("phase"), "terminated status with ready phase is reported")
}

func TestComponentAdapter_Initialize(t *testing.T) {
	a, c := newAdapter()
	tube, err := a.Create("t", "k", "r")
	require.NoError(t, err)

	require.NoError(t, a.Initialize(tube))
	issues := c.ByType(feedback.Lifecycle)
	require.Len(t, issues, 1)
	assert.Equal(t, feedback.SeverityInfo, issues[0].Severity)
	assert.Equal(t, tube.UniqueID(), issues[0].Component)
}

func TestComponentAdapter_WrapAny(t *testing.T) {
	a, c := newAdapter()
	tube, err := a.Create("t", "k", "r")
	require.NoError(t, err)

	p, err := a.WrapAny(tube)
	require.NoError(t, err)
	same, err := a.WrapAny(p)
	require.NoError(t, err)
	assert.Same(t, p, same)

	_, err = a.WrapAny("tube")
	assert.True(t, errors.IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "expected *legacy.Tube, got string")

	_, err = a.WrapAny(nil)
	assert.True(t, errors.IsTypeMismatch(err))
	assert.Len(t, c.ByType(feedback.TypeMismatch), 2)
}

func TestTubeComponent(t *testing.T) {
	a, _ := newAdapter()
	tube, err := a.Create("intake", "source", "read sensors")
	require.NoError(t, err)
	tc, err := a.Wrap(tube)
	require.NoError(t, err)

	assert.Same(t, tube, tc.Tube())
	assert.Equal(t, tube.UniqueID(), tc.ID().ID())
	assert.Equal(t, tube.CreatedAt(), tc.CreationTime())
	assert.Equal(t, "intake", tc.EnvironmentParameters()["name"])
	assert.Equal(t, "intake", tc.Properties()["name"])
	require.NotEmpty(t, tc.ActivityLog())
	assert.Contains(t, tc.ActivityLog()[0], "Tube created with reason")

	require.NoError(t, tc.Activate())
	assert.Equal(t, lifecycle.StatusActive, tube.Status())

	tube.SetStatus(lifecycle.StatusError)
	assert.Equal(t, lifecycle.StateDegraded, tc.LifecycleState(), "reads through to the tube")

	require.NoError(t, tc.TransitionTo(lifecycle.StateActive))
	require.NoError(t, tc.Deactivate())
	assert.ErrorIs(t, tc.Deactivate(), errors.ErrNotActive)

	require.NoError(t, tc.Terminate())
	assert.Equal(t, lifecycle.StatusTerminated, tube.Status())
	assert.Equal(t, lifecycle.PhaseTerminated, tube.Phase())
	assert.NoError(t, tc.Terminate())
	assert.ErrorIs(t, tc.Activate(), errors.ErrInvalidTransition)

	tc.AddToLineage("marker")
	assert.Equal(t, []string{"marker"}, tube.Lineage())

	tc.PublishData("out", map[string]any{"n": 1})
	events := tc.DomainEvents()
	assert.Equal(t, "data_published", events[len(events)-1].Type)
	assert.Equal(t, tube.UniqueID(), events[len(events)-1].SourceID)

	tc.ClearEvents()
	assert.Empty(t, tc.DomainEvents())
}

func TestTubeComponent_RepeatedDegradedReadsKeepTransitionWarnings(t *testing.T) {
	c := feedback.NewCollector(feedback.CollectorConfig{MinSeverity: feedback.SeverityDebug, MaxIssuesPerComponent: 100})
	a := NewComponentAdapter(feedback.NewLogger("direct-test", c, feedback.WithoutConsole()))
	tube, err := a.Create("intake", "source", "read sensors")
	require.NoError(t, err)
	tc, err := a.Wrap(tube)
	require.NoError(t, err)

	tube.SetStatus(lifecycle.StatusError)
	for range 150 {
		require.Equal(t, lifecycle.StateDegraded, tc.State())
	}

	tube.SetStatus(lifecycle.StatusActive)
	require.NoError(t, a.SetState(tube, lifecycle.StateTerminated))

	var found bool
	for _, issue := range c.ByType(feedback.StateTransition) {
		if issue.LegacyValue == "active" && issue.NewValue == "terminated" {
			found = true
		}
	}
	assert.True(t, found, "invalid transition warning kept after repeated reads")
	assert.Zero(t, c.Stats().Dropped)
}

func TestTubeComponent_UnreadableIdentity(t *testing.T) {
	a, c := newAdapter()
	env := legacy.NewEnvironment(nil)
	tube := legacy.NewTubeWithIdentity(legacy.NewIdentityFromValues("", "r", nil), env)
	tc := newTubeComponent(a, tube)

	assert.True(t, tc.ID().IsZero())
	issues := c.ByProperty("identity")
	require.NotEmpty(t, issues)
	assert.Equal(t, feedback.SeverityError, issues[0].Severity)
}

func TestTubeComponent_InComposite(t *testing.T) {
	a, _ := newAdapter()
	tube, err := a.Create("t", "k", "r")
	require.NoError(t, err)
	tc, err := a.Wrap(tube)
	require.NoError(t, err)

	composite := component.NewComposite("c", nil)
	require.NoError(t, composite.AddComponent("t", tc))
	got, ok := composite.Component("t")
	require.True(t, ok)
	assert.Equal(t, lifecycle.StateReady, got.State())
}
