package adapter

import (
	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/port"
)

// CompositePort presents a component.Composite through
// port.CompositeComponentPort. Children are exchanged as ports and the
// whole-membership view is keyed by each child's identity string.
type CompositePort struct {
	*aggregate
	composite component.Composite
}

var _ port.CompositeComponentPort = (*CompositePort)(nil)

// NewCompositePort wraps c. The composite has no shutdown of its own, so
// terminating the port leaves it deactivated.
func NewCompositePort(c component.Composite, opts ...Option) *CompositePort {
	if c == nil {
		return nil
	}
	o := applyOptions("adapter.composite_port", opts)
	o.metrics.RecordWrapperCreated(kindCompositePort)
	return &CompositePort{
		aggregate: newAggregate("Composite", c.CompositeID(),
			c.Activate, c.Deactivate, c.IsActive, c.Deactivate),
		composite: c,
	}
}

// Composite returns the wrapped composite.
func (p *CompositePort) Composite() component.Composite { return p.composite }

// CompositeID returns the wrapped composite's id.
func (p *CompositePort) CompositeID() string { return p.composite.CompositeID() }

// AddComponent adds c under name, reporting whether it was accepted.
func (p *CompositePort) AddComponent(name string, c port.ComponentPort) bool {
	if c == nil {
		return false
	}
	return p.composite.AddComponent(name, asUnit(c)) == nil
}

// RemoveComponent removes and returns the component held under name.
func (p *CompositePort) RemoveComponent(name string) (port.ComponentPort, bool) {
	u, ok := p.composite.RemoveComponent(name)
	if !ok {
		return nil, false
	}
	return asPort(u), true
}

// Component returns the component held under name as a port.
func (p *CompositePort) Component(name string) (port.ComponentPort, bool) {
	u, ok := p.composite.Component(name)
	if !ok {
		return nil, false
	}
	return asPort(u), true
}

// HasComponent reports whether name is held by the composite.
func (p *CompositePort) HasComponent(name string) bool {
	_, ok := p.composite.Component(name)
	return ok
}

// Components returns every child keyed by its identity string, so two
// composites holding the same child under different names agree.
func (p *CompositePort) Components() map[string]port.ComponentPort {
	units := p.composite.Components()
	out := make(map[string]port.ComponentPort, len(units))
	for _, u := range units {
		out[u.ID().ID()] = asPort(u)
	}
	return out
}

// Connect links src to dst, reporting success.
func (p *CompositePort) Connect(src, dst string) bool {
	return p.composite.Connect(src, dst) == nil
}

// Disconnect removes the src to dst link, reporting success.
func (p *CompositePort) Disconnect(src, dst string) bool {
	return p.composite.Disconnect(src, dst)
}

// Connections returns a copy of the connection map.
func (p *CompositePort) Connections() map[string][]string {
	return p.composite.Connections()
}

// ConnectionsFrom returns the targets connected from src.
func (p *CompositePort) ConnectionsFrom(src string) []string {
	return p.composite.ConnectionsFrom(src)
}

// UnwrapComposite returns the composite behind a port built by
// NewCompositePort.
func UnwrapComposite(p port.CompositeComponentPort) (component.Composite, bool) {
	cp, ok := p.(*CompositePort)
	if !ok || cp == nil {
		return nil, false
	}
	return cp.composite, true
}
