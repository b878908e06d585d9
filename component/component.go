package component

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
)

// Unit is what a Composite holds: anything with an identity and a lifecycle.
// Both *Component and adapters over legacy tubes satisfy it.
type Unit interface {
	ID() identity.ComponentID
	State() lifecycle.State
	TransitionTo(state lifecycle.State) error
	Lineage() []string
}

// Component is the new-style concrete component.
type Component struct {
	mu          sync.RWMutex
	id          identity.ComponentID
	env         *Environment
	state       lifecycle.State
	activityLog []string
	events      []port.Event
	properties  map[string]any
	createdAt   time.Time
	logger      *slog.Logger
}

// New creates a component in the ready state.
func New(reason string, env *Environment) (*Component, error) {
	id, err := identity.New(reason)
	if err != nil {
		return nil, errors.InitializationFailed("Component", "New", "component identity", err)
	}
	return FromID(id, env), nil
}

// NewChild creates a ready component whose identity descends from parent.
func NewChild(reason string, parent *Component) (*Component, error) {
	if parent == nil {
		return nil, errors.InitializationFailed("Component", "NewChild", "child component",
			fmt.Errorf("%w: parent is nil", errors.ErrInvalidData))
	}
	id, err := identity.New(reason, parent.ID())
	if err != nil {
		return nil, errors.InitializationFailed("Component", "NewChild", "child identity", err)
	}
	return FromID(id, parent.Environment().Clone()), nil
}

// FromID creates a ready component around an existing identity. A nil
// environment is replaced by an empty one.
func FromID(id identity.ComponentID, env *Environment) *Component {
	if env == nil {
		env = NewEnvironment(nil)
	}
	c := &Component{
		id:         id,
		env:        env,
		state:      lifecycle.StateReady,
		properties: make(map[string]any),
		createdAt:  time.Now().UTC(),
		logger:     slog.Default().With("component", "component", "component_id", id.ShortID()),
	}
	c.Log("Component created: " + id.Reason())
	return c
}

// ID returns the component identity, lineage included.
func (c *Component) ID() identity.ComponentID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Environment returns the component's environment.
func (c *Component) Environment() *Environment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.env
}

// State returns the current lifecycle state.
func (c *Component) State() lifecycle.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// TransitionTo moves to target if the transition table allows it.
func (c *Component) TransitionTo(target lifecycle.State) error {
	c.mu.Lock()
	from := c.state
	if from == target {
		c.mu.Unlock()
		return nil
	}
	if !from.CanTransitionTo(target) {
		c.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, target),
			"Component", "TransitionTo", "transition check")
	}
	c.state = target
	c.mu.Unlock()

	c.logger.Debug("State transition", "from", from.String(), "to", target.String())
	c.Log(fmt.Sprintf("State changed: %s -> %s", from, target))
	c.record("state_changed", "", map[string]any{"from": from.String(), "to": target.String()})
	return nil
}

// ForceState sets the state without consulting the transition table. Adapters
// use it to seed a component whose state comes from another family.
func (c *Component) ForceState(state lifecycle.State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	c.Log("State set to: " + state.String())
}

// Activate moves a ready or degraded component to active.
func (c *Component) Activate() error {
	return c.TransitionTo(lifecycle.StateActive)
}

// Deactivate moves an active component back to ready.
func (c *Component) Deactivate() error {
	if c.State() != lifecycle.StateActive {
		return errors.WrapInvalid(errors.ErrNotActive, "Component", "Deactivate", "state check")
	}
	return c.TransitionTo(lifecycle.StateReady)
}

// Terminate walks the component through terminating to terminated. It is
// idempotent.
func (c *Component) Terminate() error {
	switch c.State() {
	case lifecycle.StateTerminated:
		return nil
	case lifecycle.StateTerminating:
	default:
		if err := c.TransitionTo(lifecycle.StateTerminating); err != nil {
			return err
		}
	}
	return c.TransitionTo(lifecycle.StateTerminated)
}

// Publish records a data event on channel.
func (c *Component) Publish(channel string, data map[string]any) {
	c.record("data_published", channel, maps.Clone(data))
}

func (c *Component) record(eventType, channel string, data map[string]any) {
	e := port.NewEvent(eventType, c.ID().ID(), channel, data)
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

// Events returns a copy of the recorded domain events.
func (c *Component) Events() []port.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.events)
}

// ClearEvents drops every recorded domain event.
func (c *Component) ClearEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// AddToLineage appends entry to the identity lineage.
func (c *Component) AddToLineage(entry string) {
	if entry == "" {
		return
	}
	c.mu.Lock()
	c.id = c.id.WithLineage(entry)
	c.mu.Unlock()
	c.Log("Added to lineage: " + entry)
}

// Lineage returns the identity lineage.
func (c *Component) Lineage() []string { return c.ID().Lineage() }

// Log appends an entry to the activity log.
func (c *Component) Log(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activityLog = append(c.activityLog, entry)
}

// ActivityLog returns a copy of the activity log.
func (c *Component) ActivityLog() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.activityLog)
}

// CreatedAt returns when the component was created.
func (c *Component) CreatedAt() time.Time { return c.createdAt }

// Properties returns a copy of the property bag.
func (c *Component) Properties() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.properties)
}

// SetProperty sets a property.
func (c *Component) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[key] = value
}
