package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/lifecycle"
)

func TestNewTube(t *testing.T) {
	env := NewEnvironment(map[string]string{"region": "eu"})

	tube, err := NewTube("sensor intake", env)
	require.NoError(t, err)

	assert.Len(t, tube.UniqueID(), 64)
	assert.Equal(t, "sensor intake", tube.Reason())
	assert.Equal(t, lifecycle.StatusReady, tube.Status())
	assert.Equal(t, lifecycle.PhaseReady, tube.Phase())
	assert.True(t, tube.Identity().IsAdam())
	assert.Equal(t, "eu", tube.Identity().EnvironmentContext()["region"])
	assert.NotEmpty(t, tube.ActivityLog())
}

func TestNewTube_Validation(t *testing.T) {
	_, err := NewTube(" ", NewEnvironment(nil))
	require.Error(t, err)
	assert.True(t, errors.IsInitializationFailure(err))

	_, err = NewTube("reason", nil)
	assert.True(t, errors.IsInitializationFailure(err))

	_, err = NewChildTube("child", NewEnvironment(nil), nil)
	assert.True(t, errors.IsInitializationFailure(err))
}

func TestNewChildTube(t *testing.T) {
	env := NewEnvironment(nil)
	parent, err := NewTube("parent", env)
	require.NoError(t, err)

	child, err := NewChildTube("child", env, parent)
	require.NoError(t, err)

	assert.False(t, child.Identity().IsAdam())
	assert.Equal(t, []string{parent.UniqueID()}, child.Lineage())
	assert.Same(t, parent.Identity(), child.Identity().Parent())
	assert.Len(t, parent.Identity().Descendants(), 1)
	assert.NotEqual(t, parent.UniqueID(), child.UniqueID())
}

func TestTube_IndependentSignals(t *testing.T) {
	tube, err := NewTube("t", NewEnvironment(nil))
	require.NoError(t, err)

	tube.SetStatus(lifecycle.StatusActive)
	assert.Equal(t, lifecycle.PhaseReady, tube.Phase(), "status changes leave phase alone")

	tube.SetPhase(lifecycle.PhaseConfiguring)
	assert.Equal(t, lifecycle.StatusActive, tube.Status())
}

func TestTube_Terminate(t *testing.T) {
	tube, err := NewTube("t", NewEnvironment(nil))
	require.NoError(t, err)

	tube.Terminate()
	assert.Equal(t, lifecycle.StatusTerminated, tube.Status())
	assert.Equal(t, lifecycle.PhaseTerminated, tube.Phase())

	n := len(tube.ActivityLog())
	tube.Terminate()
	assert.Len(t, tube.ActivityLog(), n, "terminate is idempotent")
}

func TestIdentity_AdamSurvivesLineageGrowth(t *testing.T) {
	id := NewAdamIdentity("root", nil)
	id.AddToLineage("marker")
	id.AddToLineage("")

	assert.True(t, id.IsAdam())
	assert.Equal(t, []string{"marker"}, id.Lineage())

	rebuilt := NewIdentityFromValues("x", "r", []string{"p"})
	assert.False(t, rebuilt.IsAdam())
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment(map[string]string{"b": "2"})
	env.SetParameter("a", "1")

	assert.Equal(t, []string{"a", "b"}, env.ParameterKeys())
	assert.Equal(t, "{a=1, b=2}", env.String())
	assert.Equal(t, "", env.Parameter("missing"))

	params := env.Parameters()
	params["a"] = "changed"
	assert.Equal(t, "1", env.Parameter("a"))
}

func TestComposite_DeferredWiring(t *testing.T) {
	c := NewComposite("pipeline", NewEnvironment(nil))

	a, err := c.CreateTube("A", "source")
	require.NoError(t, err)
	c.Connect("A", "B")
	c.Connect("A", "B")

	_, hasB := c.Tube("B")
	assert.False(t, hasB)
	assert.Equal(t, map[string][]string{"A": {"B"}}, c.Connections())

	got, ok := c.Tube("A")
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, c.Disconnect("A", "B"))
	assert.False(t, c.Disconnect("A", "B"))
	assert.Empty(t, c.Connections())
}

func TestComposite_Activation(t *testing.T) {
	c := NewComposite("c", nil)
	assert.True(t, c.IsActive())
	assert.Nil(t, c.Environment())

	c.Deactivate()
	assert.False(t, c.IsActive())
	c.Activate()
	assert.True(t, c.IsActive())

	_, err := c.CreateTube("x", "created without env")
	assert.NoError(t, err)
}

func TestMachine(t *testing.T) {
	m := NewMachine("m1", NewEnvironment(nil))
	c := NewComposite("c1", nil)
	m.AddComposite("first", c)
	m.Connect("first", "second")
	m.UpdateState("mode", "batch")

	assert.True(t, m.IsActive())
	assert.Equal(t, "batch", m.State()["mode"])
	assert.Equal(t, []string{"second"}, m.Connections()["first"])

	m.Deactivate()
	assert.False(t, m.IsActive())
	assert.False(t, c.IsActive(), "deactivation cascades to composites")

	m.Shutdown()
	assert.Empty(t, m.Composites())
	assert.False(t, m.IsActive())
}

func TestEnvironment_ZeroValue(t *testing.T) {
	var env Environment
	assert.Empty(t, env.Parameter("missing"))
	assert.NotNil(t, env.Parameters())

	env.SetParameter("k", "v")
	assert.Equal(t, []string{"k"}, env.ParameterKeys())
}

func TestCoreComponent(t *testing.T) {
	var c CoreComponent
	assert.Empty(t, c.State())
	assert.False(t, c.Initialized())

	c.Initialize()
	assert.Equal(t, "READY", c.State())
	assert.True(t, c.Initialized())

	c.SetState("ACTIVE")
	c.Initialize()
	assert.Equal(t, "ACTIVE", c.State(), "second Initialize leaves state alone")

	id := NewAdamIdentity("core", NewEnvironment(nil))
	c.SetIdentity(id)
	c.SetName("worker")
	c.SetType("processor")
	assert.Same(t, id, c.Identity())
	assert.Equal(t, "worker", c.Name())
	assert.Equal(t, "processor", c.Type())
}
