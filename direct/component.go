package direct

import (
	"fmt"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/legacy"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
	"github.com/c360/s8rbridge/translate"
)

const tubeType = "*legacy.Tube"

// ComponentAdapter creates, drives and wraps legacy tubes.
type ComponentAdapter struct {
	ids        *IdentityConverter
	envs       *EnvironmentConverter
	translator *translate.Translator
	issues     *feedback.Logger
}

// NewComponentAdapter creates an adapter whose converters and translator all
// report to issues.
func NewComponentAdapter(issues *feedback.Logger) *ComponentAdapter {
	issues = named(issues, "direct.component")
	return &ComponentAdapter{
		ids:        NewIdentityConverter(issues),
		envs:       NewEnvironmentConverter(issues),
		translator: translate.New(issues.Named("translate")),
		issues:     issues,
	}
}

// Identities returns the identity converter sharing the adapter's issues.
func (a *ComponentAdapter) Identities() *IdentityConverter { return a.ids }

// Environments returns the environment converter sharing the adapter's issues.
func (a *ComponentAdapter) Environments() *EnvironmentConverter { return a.envs }

// Translator returns the translator shared by the adapter's converters.
func (a *ComponentAdapter) Translator() *translate.Translator { return a.translator }

func (a *ComponentAdapter) check(method string, t *legacy.Tube) error {
	if t != nil {
		return nil
	}
	a.issues.ReportTypeMismatch(method, "nil", tubeType)
	return errors.TypeMismatch("ComponentAdapter", method, tubeType, "nil")
}

// Create builds a ready legacy tube named name whose environment records the
// name and component type.
func (a *ComponentAdapter) Create(name, componentType, reason string) (*legacy.Tube, error) {
	env := a.envs.CreateNamed(name, map[string]string{"type": componentType})
	t, err := legacy.NewTube(reason, env)
	if err != nil {
		return nil, err
	}
	t.SetName(name)
	return t, nil
}

// CreateChild builds a tube descending from parent in parent's environment.
func (a *ComponentAdapter) CreateChild(reason string, parent *legacy.Tube) (*legacy.Tube, error) {
	if err := a.check("CreateChild", parent); err != nil {
		return nil, err
	}
	return legacy.NewChildTube(reason, parent.Environment(), parent)
}

// Initialize is a no-op: tubes are ready once constructed. The call is
// recorded as a lifecycle issue so callers can spot redundant calls.
func (a *ComponentAdapter) Initialize(t *legacy.Tube) error {
	if err := a.check("Initialize", t); err != nil {
		return err
	}
	a.issues.Report(feedback.Lifecycle, feedback.SeverityInfo,
		"Legacy tubes need no explicit initialization",
		feedback.WithComponent(t.UniqueID()))
	return nil
}

// State maps a tube's status to a lifecycle state. While the status is
// initializing, the finer-grained phase decides which creation state.
// Disagreeing status and phase are reported.
func (a *ComponentAdapter) State(t *legacy.Tube) (lifecycle.State, error) {
	if err := a.check("State", t); err != nil {
		return lifecycle.StateReady, err
	}
	status, phase := t.Status(), t.Phase()
	a.translator.CheckConsistency(status, phase)
	if status == lifecycle.StatusInitializing {
		if s, ok := lifecycle.LookupPhaseState(phase); ok && s.Category() == lifecycle.CategoryCreation {
			return s, nil
		}
	}
	return a.translator.ToLifecycleState(status), nil
}

// SetState writes both the status and the phase for state. Transitions the
// legacy family forbids are reported but still applied.
func (a *ComponentAdapter) SetState(t *legacy.Tube, state lifecycle.State) error {
	if err := a.check("SetState", t); err != nil {
		return err
	}
	status := a.translator.ToLegacyStatus(state)
	a.translator.IsInvalidTransition(t.Status(), status)
	t.SetStatus(status)
	t.SetPhase(a.translator.ToLegacyPhase(state))
	return nil
}

// Wrap returns the port view of t.
func (a *ComponentAdapter) Wrap(t *legacy.Tube) (*TubeComponent, error) {
	if err := a.check("Wrap", t); err != nil {
		return nil, err
	}
	if _, err := a.ids.FromTube(t); err != nil {
		return nil, err
	}
	return newTubeComponent(a, t), nil
}

// WrapAny wraps a *legacy.Tube, passes a *TubeComponent through, and rejects
// anything else as a type mismatch.
func (a *ComponentAdapter) WrapAny(obj any) (port.ComponentPort, error) {
	switch v := obj.(type) {
	case *TubeComponent:
		return v, nil
	case *legacy.Tube:
		return a.Wrap(v)
	}
	actual := "nil"
	if obj != nil {
		actual = fmt.Sprintf("%T", obj)
	}
	a.issues.ReportTypeMismatch("WrapAny", actual, tubeType)
	return nil, errors.TypeMismatch("ComponentAdapter", "WrapAny", tubeType, actual)
}

// TubeComponent presents a legacy tube as a port.ComponentPort and a
// component.Unit. State, identity and lineage are read through the tube on
// every call.
type TubeComponent struct {
	*port.Journal
	adapter *ComponentAdapter
	tube    *legacy.Tube
}

func newTubeComponent(a *ComponentAdapter, t *legacy.Tube) *TubeComponent {
	c := &TubeComponent{
		Journal: port.NewJournal(t.CreatedAt(), t.ActivityLog()...),
		adapter: a,
		tube:    t,
	}
	c.SetProperty("name", t.Name())
	c.SetProperty("reason", t.Reason())
	return c
}

// Tube returns the wrapped tube.
func (c *TubeComponent) Tube() *legacy.Tube { return c.tube }

// EnvironmentParameters returns a copy of the tube's environment.
func (c *TubeComponent) EnvironmentParameters() map[string]string {
	return c.tube.Environment().Parameters()
}

// ID rebuilds the ComponentID from the tube's identity. An unreadable
// identity is reported and yields the zero ComponentID.
func (c *TubeComponent) ID() identity.ComponentID {
	cid, err := c.adapter.ids.FromTube(c.tube)
	if err != nil {
		c.adapter.issues.Report(feedback.MissingProperty, feedback.SeverityError,
			fmt.Sprintf("Tube identity unreadable, using zero ComponentID: %v", err),
			feedback.WithProperty("identity"))
	}
	return cid
}

// State maps the tube's status and phase to a lifecycle state.
func (c *TubeComponent) State() lifecycle.State {
	s, err := c.adapter.State(c.tube)
	if err != nil {
		c.adapter.issues.Report(feedback.Lifecycle, feedback.SeverityError,
			fmt.Sprintf("Tube state unreadable, using %s: %v", s, err))
	}
	return s
}

// LifecycleState is State under its port name.
func (c *TubeComponent) LifecycleState() lifecycle.State { return c.State() }

// Lineage returns the tube identity's lineage.
func (c *TubeComponent) Lineage() []string { return c.tube.Lineage() }

// AddToLineage appends entry to the tube identity's lineage.
func (c *TubeComponent) AddToLineage(entry string) { c.tube.AddToLineage(entry) }

// PublishData records a data_published event for channel.
func (c *TubeComponent) PublishData(channel string, data map[string]any) {
	c.Record(port.NewEvent("data_published", c.tube.UniqueID(), channel, data))
}

// TransitionTo moves to target if the lifecycle transition table allows it,
// writing status and phase to the tube.
func (c *TubeComponent) TransitionTo(target lifecycle.State) error {
	from := c.State()
	if from == target {
		return nil
	}
	if !from.CanTransitionTo(target) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, target),
			"TubeComponent", "TransitionTo", "transition check")
	}
	if err := c.adapter.SetState(c.tube, target); err != nil {
		return err
	}
	entry := fmt.Sprintf("State changed: %s -> %s", from, target)
	c.tube.Log(entry)
	c.Log(entry)
	c.Record(port.NewEvent("state_changed", c.tube.UniqueID(), "",
		map[string]any{"from": from.String(), "to": target.String()}))
	return nil
}

// Activate transitions to active.
func (c *TubeComponent) Activate() error {
	return c.TransitionTo(lifecycle.StateActive)
}

// Deactivate returns an active tube to ready; any other state is ErrNotActive.
func (c *TubeComponent) Deactivate() error {
	if c.State() != lifecycle.StateActive {
		return errors.WrapInvalid(errors.ErrNotActive, "TubeComponent", "Deactivate", "state check")
	}
	return c.TransitionTo(lifecycle.StateReady)
}

// Terminate walks the termination path from the current state.
func (c *TubeComponent) Terminate() error {
	for _, next := range c.State().TerminationPath() {
		if err := c.TransitionTo(next); err != nil {
			return err
		}
	}
	return nil
}
