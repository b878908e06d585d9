package reflective

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
	"github.com/c360/s8rbridge/translate"
)

func componentRole(idType reflect.Type) role {
	return role{
		key: "component<" + idType.String() + ">",
		methods: []signature{
			sig("Identity", nil, idType),
			sig("SetIdentity", args(idType)),
			sig("State", nil, stringType),
			sig("SetState", args(stringType)),
			sig("Initialize", nil),
			sig("Name", nil, stringType),
			sig("SetName", args(stringType)),
			sig("Type", nil, stringType),
			sig("SetType", args(stringType)),
		},
	}
}

// ComponentAdapter drives legacy components of a type known only by its
// registered name. Their state is a legacy status name; it is translated to
// and from lifecycle.State on every access.
type ComponentAdapter struct {
	contract   *Contract
	ids        *IdentityConverter
	envs       *EnvironmentConverter
	issues     *feedback.Logger
	translator *translate.Translator
}

// NewComponentAdapter resolves typeName against the identity type of ids and
// verifies the whole component contract.
func NewComponentAdapter(
	reg *TypeRegistry, typeName string, ids *IdentityConverter, envs *EnvironmentConverter, issues *feedback.Logger,
) (*ComponentAdapter, error) {
	issues = privateIssues(issues, "reflective.component")
	contract, err := reg.resolve(componentRole(ids.Type()), typeName)
	if err != nil {
		issues.ReportReflectionError(typeName, err)
		return nil, err
	}
	return &ComponentAdapter{
		contract:   contract,
		ids:        ids,
		envs:       envs,
		issues:     issues,
		translator: translate.New(issues),
	}, nil
}

// Contract returns the contract the adapter was built from.
func (a *ComponentAdapter) Contract() *Contract { return a.contract }

// Type returns the legacy type the adapter handles.
func (a *ComponentAdapter) Type() reflect.Type { return a.contract.Type }

// Accepts reports whether obj satisfies the adapter's contract.
func (a *ComponentAdapter) Accepts(obj any) bool { return a.contract.Accepts(obj) }

// Identities returns the identity converter the adapter uses.
func (a *ComponentAdapter) Identities() *IdentityConverter { return a.ids }

// Create builds a legacy component end to end: an environment carrying name
// and type, an Adam identity, then the component itself, initialized.
func (a *ComponentAdapter) Create(name, componentType, reason string) (any, error) {
	env, err := a.envs.Create(map[string]string{"name": name, "type": componentType})
	if err != nil {
		return nil, errors.InitializationFailed("ComponentAdapter", "Create", "environment", err)
	}
	id, err := a.ids.CreateAdam(reason, env)
	if err != nil {
		return nil, err
	}

	obj := a.contract.New()
	steps := []struct {
		method string
		arg    reflect.Value
	}{
		{"SetIdentity", reflect.ValueOf(id)},
		{"SetName", reflect.ValueOf(name)},
		{"SetType", reflect.ValueOf(componentType)},
	}
	for _, s := range steps {
		if _, err := a.contract.call("ComponentAdapter", s.method, obj, s.arg); err != nil {
			return nil, errors.InitializationFailed("ComponentAdapter", "Create", a.contract.TypeName, err)
		}
	}
	if err := a.initialize(obj); err != nil {
		return nil, err
	}
	return obj.Interface(), nil
}

// Initialize calls the component's Initialize method.
func (a *ComponentAdapter) Initialize(obj any) error {
	recv, err := a.contract.receiver(a.issues, "ComponentAdapter", "Initialize", obj)
	if err != nil {
		return err
	}
	return a.initialize(recv)
}

func (a *ComponentAdapter) initialize(recv reflect.Value) error {
	if _, err := a.contract.call("ComponentAdapter", "Initialize", recv); err != nil {
		a.issues.ReportReflectionError(a.contract.TypeName+".Initialize", err)
		return errors.InitializationFailed("ComponentAdapter", "Initialize", a.contract.TypeName, err)
	}
	return nil
}

// State reads the legacy status name and maps it to a lifecycle state. An
// empty status means the component was never initialized.
func (a *ComponentAdapter) State(obj any) (lifecycle.State, error) {
	recv, err := a.contract.receiver(a.issues, "ComponentAdapter", "State", obj)
	if err != nil {
		return lifecycle.StateReady, err
	}
	raw, err := callValue[string](a.contract, "ComponentAdapter", "State", recv)
	if err != nil {
		return lifecycle.StateReady, err
	}
	if raw == "" {
		return lifecycle.StateConception, nil
	}
	return a.translator.ToLifecycleState(a.translator.ParseLegacyStatus(raw)), nil
}

// SetState writes the legacy status for state, upper-cased as legacy code
// spells it.
func (a *ComponentAdapter) SetState(obj any, state lifecycle.State) error {
	recv, err := a.contract.receiver(a.issues, "ComponentAdapter", "SetState", obj)
	if err != nil {
		return err
	}
	status := a.translator.ToLegacyStatus(state)
	_, err = a.contract.call("ComponentAdapter", "SetState", recv,
		reflect.ValueOf(strings.ToUpper(status.String())))
	return err
}

// Wrap returns a ComponentPort view of obj.
func (a *ComponentAdapter) Wrap(obj any) (port.ComponentPort, error) {
	recv, err := a.contract.receiver(a.issues, "ComponentAdapter", "Wrap", obj)
	if err != nil {
		return nil, err
	}
	name, err := callValue[string](a.contract, "ComponentAdapter", "Name", recv)
	if err != nil {
		return nil, err
	}
	typ, err := callValue[string](a.contract, "ComponentAdapter", "Type", recv)
	if err != nil {
		return nil, err
	}

	c := &Component{
		Journal: port.NewJournal(time.Now().UTC()),
		adapter: a,
		obj:     obj,
		recv:    recv,
	}
	c.SetProperty("name", name)
	c.SetProperty("type", typ)
	c.SetProperty("legacy_type", a.contract.TypeName)
	c.Log("Wrapped legacy component " + name)
	return c, nil
}

// Component is the ComponentPort view of a reflectively driven legacy
// component. Identity and state are read through the legacy object on every
// call; the activity log and events live in the embedded Journal.
type Component struct {
	*port.Journal
	adapter *ComponentAdapter
	obj     any
	recv    reflect.Value
}

// Legacy returns the wrapped legacy object.
func (c *Component) Legacy() any { return c.obj }

func (c *Component) legacyIdentity() (any, error) {
	return callValue[any](c.adapter.contract, "Component", "Identity", c.recv)
}

// ID returns the translated identity, or the zero ComponentID when the
// legacy identity cannot be read. Failures are reported as issues.
func (c *Component) ID() identity.ComponentID {
	id, err := c.legacyIdentity()
	if err == nil {
		var cid identity.ComponentID
		if cid, err = c.adapter.ids.ToComponentID(id); err == nil {
			return cid
		}
	}
	c.adapter.issues.ReportReflectionError(c.adapter.contract.TypeName+".Identity", err)
	return identity.ComponentID{}
}

// LifecycleState returns the translated state of the legacy object.
func (c *Component) LifecycleState() lifecycle.State {
	s, err := c.adapter.State(c.obj)
	if err != nil {
		c.adapter.issues.ReportReflectionError(c.adapter.contract.TypeName+".State", err)
	}
	return s
}

// Lineage returns the legacy object's lineage.
func (c *Component) Lineage() []string {
	id, err := c.legacyIdentity()
	if err == nil {
		var lineage []string
		if lineage, err = c.adapter.ids.Lineage(id); err == nil {
			return lineage
		}
	}
	c.adapter.issues.ReportReflectionError(c.adapter.contract.TypeName+".Lineage", err)
	return nil
}

// AddToLineage appends entry to the legacy object's lineage.
func (c *Component) AddToLineage(entry string) {
	id, err := c.legacyIdentity()
	if err == nil {
		err = c.adapter.ids.AddToLineage(id, entry)
	}
	if err != nil {
		c.adapter.issues.ReportReflectionError(c.adapter.contract.TypeName+".AddToLineage", err)
	}
}

// PublishData forwards a data event to the legacy object.
func (c *Component) PublishData(channel string, data map[string]any) {
	c.Record(port.NewEvent("data_published", c.ID().ID(), channel, data))
}

// TransitionTo moves to target if the lifecycle transition table allows it
// and writes the matching legacy status.
func (c *Component) TransitionTo(target lifecycle.State) error {
	from := c.LifecycleState()
	if from == target {
		return nil
	}
	if !from.CanTransitionTo(target) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, target),
			"Component", "TransitionTo", "transition check")
	}
	if err := c.adapter.SetState(c.obj, target); err != nil {
		return err
	}
	c.Log(fmt.Sprintf("State changed: %s -> %s", from, target))
	c.Record(port.NewEvent("state_changed", c.ID().ID(), "",
		map[string]any{"from": from.String(), "to": target.String()}))
	return nil
}

// Activate moves the legacy object to StateActive.
func (c *Component) Activate() error {
	return c.TransitionTo(lifecycle.StateActive)
}

// Deactivate moves an active legacy object back to StateReady.
func (c *Component) Deactivate() error {
	if c.LifecycleState() != lifecycle.StateActive {
		return errors.WrapInvalid(errors.ErrNotActive, "Component", "Deactivate", "state check")
	}
	return c.TransitionTo(lifecycle.StateReady)
}

// Terminate moves the legacy object to StateTerminated.
func (c *Component) Terminate() error {
	for _, next := range c.LifecycleState().TerminationPath() {
		if err := c.TransitionTo(next); err != nil {
			return err
		}
	}
	return nil
}
