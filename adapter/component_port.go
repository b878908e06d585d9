package adapter

import (
	"time"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
)

// ComponentPort presents a new-style component through port.ComponentPort.
// Methods the two share are promoted from the embedded component.
type ComponentPort struct {
	*component.Component
}

var _ port.ComponentPort = (*ComponentPort)(nil)

// NewComponentPort wraps c. A nil component yields nil.
func NewComponentPort(c *component.Component) *ComponentPort {
	if c == nil {
		return nil
	}
	return &ComponentPort{Component: c}
}

// LifecycleState returns the wrapped component's state.
func (p *ComponentPort) LifecycleState() lifecycle.State { return p.Component.State() }

// CreationTime returns when the wrapped component was created.
func (p *ComponentPort) CreationTime() time.Time { return p.Component.CreatedAt() }

// DomainEvents returns the events the wrapped component has recorded.
func (p *ComponentPort) DomainEvents() []port.Event { return p.Component.Events() }

// PublishData records a data event on channel.
func (p *ComponentPort) PublishData(channel string, data map[string]any) {
	p.Component.Publish(channel, data)
}

// UnwrapComponent returns the component behind a port built by
// NewComponentPort.
func UnwrapComponent(p port.ComponentPort) (*component.Component, bool) {
	cp, ok := p.(*ComponentPort)
	if !ok || cp == nil {
		return nil, false
	}
	return cp.Component, true
}

// unitPort lets a composite hold a port as a component.Unit.
type unitPort struct {
	port.ComponentPort
}

// State returns the port's lifecycle state.
func (u unitPort) State() lifecycle.State { return u.LifecycleState() }

// asUnit converts a port into something a composite can hold, unwrapping
// ports that already sit over a unit.
func asUnit(p port.ComponentPort) component.Unit {
	switch v := p.(type) {
	case *ComponentPort:
		return v.Component
	case component.Unit:
		return v
	}
	return unitPort{p}
}

// asPort is the inverse of asUnit. Units with no port view of their own are
// given a minimal one.
func asPort(u component.Unit) port.ComponentPort {
	switch v := u.(type) {
	case unitPort:
		return v.ComponentPort
	case *component.Component:
		return NewComponentPort(v)
	case port.ComponentPort:
		return v
	}
	return newBareUnitPort(u)
}

// bareUnitPort fills in the bookkeeping a plain unit lacks.
type bareUnitPort struct {
	component.Unit
	*port.Journal
}

func newBareUnitPort(u component.Unit) *bareUnitPort {
	return &bareUnitPort{Unit: u, Journal: port.NewJournal(u.ID().CreatedAt())}
}

// LifecycleState returns the unit's state.
func (b *bareUnitPort) LifecycleState() lifecycle.State { return b.Unit.State() }

// AddToLineage only logs entry; a plain unit carries no lineage.
func (b *bareUnitPort) AddToLineage(entry string) {
	b.Log("Lineage entry not applied to plain unit: " + entry)
}

// PublishData records a data event on channel.
func (b *bareUnitPort) PublishData(channel string, data map[string]any) {
	b.Record(port.NewEvent("data_published", b.ID().ID(), channel, data))
}

// Activate moves the unit to StateActive.
func (b *bareUnitPort) Activate() error { return b.TransitionTo(lifecycle.StateActive) }

// Deactivate moves the unit back to StateReady.
func (b *bareUnitPort) Deactivate() error { return b.TransitionTo(lifecycle.StateReady) }

// Terminate moves the unit to StateTerminated.
func (b *bareUnitPort) Terminate() error {
	for _, next := range b.Unit.State().TerminationPath() {
		if err := b.TransitionTo(next); err != nil {
			return err
		}
	}
	return nil
}
