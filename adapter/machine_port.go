package adapter

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/port"
)

// MachinePort presents a component.Machine through port.MachinePort. An
// active machine is running, an inactive one stopped. Terminating the port
// shuts the machine down.
type MachinePort struct {
	*aggregate
	machine component.Machine
	opts    []Option
	ports   cmap.ConcurrentMap[string, *CompositePort]
}

var _ port.MachinePort = (*MachinePort)(nil)

// NewMachinePort presents m through port.MachinePort.
func NewMachinePort(m component.Machine, opts ...Option) *MachinePort {
	if m == nil {
		return nil
	}
	o := applyOptions("adapter.machine_port", opts)
	o.metrics.RecordWrapperCreated(kindMachinePort)
	return &MachinePort{
		aggregate: newAggregate("Machine", m.MachineID(),
			m.Activate, m.Deactivate, m.IsActive, m.Shutdown),
		machine: m,
		opts:    opts,
		ports:   cmap.New[*CompositePort](),
	}
}

// Machine returns the wrapped machine.
func (p *MachinePort) Machine() component.Machine { return p.machine }

// MachineID returns the wrapped machine's id.
func (p *MachinePort) MachineID() string { return p.machine.MachineID() }

// MachineState maps the machine's activity to a port.MachineState.
func (p *MachinePort) MachineState() port.MachineState {
	if p.machine.IsActive() {
		return port.MachineRunning
	}
	return port.MachineStopped
}

// SetMachineState starts or stops the machine to match state.
func (p *MachinePort) SetMachineState(state port.MachineState) {
	switch state {
	case port.MachineRunning:
		p.Start()
	case port.MachineStopped:
		p.Stop()
	}
}

// Start activates the machine and reports whether it is now running. A shut
// down machine refuses.
func (p *MachinePort) Start() bool {
	if p.isTerminated() {
		return false
	}
	p.machine.Activate()
	return p.machine.IsActive()
}

// Stop deactivates the machine and reports whether it is now stopped.
func (p *MachinePort) Stop() bool {
	p.machine.Deactivate()
	return !p.machine.IsActive()
}

// AddComposite accepts only ports built over a component.Composite.
func (p *MachinePort) AddComposite(name string, c port.CompositeComponentPort) bool {
	cp, ok := c.(*CompositePort)
	if !ok || cp == nil {
		return false
	}
	if err := p.machine.AddComposite(name, cp.composite); err != nil {
		return false
	}
	p.ports.Set(name, cp)
	return true
}

// RemoveComposite removes and returns the composite held under name.
func (p *MachinePort) RemoveComposite(name string) (port.CompositeComponentPort, bool) {
	c, ok := p.machine.RemoveComposite(name)
	cached, _ := p.ports.Pop(name)
	if !ok {
		return nil, false
	}
	if cached != nil && cached.composite == c {
		return cached, true
	}
	return NewCompositePort(c, p.opts...), true
}

// Composite returns a port over the named composite, reusing the port handed
// out last time while the machine still holds the same composite.
func (p *MachinePort) Composite(name string) (port.CompositeComponentPort, bool) {
	c, ok := p.machine.Composite(name)
	if !ok {
		p.ports.Remove(name)
		return nil, false
	}
	return p.portFor(name, c), true
}

func (p *MachinePort) portFor(name string, c component.Composite) *CompositePort {
	return p.ports.Upsert(name, nil, func(exists bool, cached, _ *CompositePort) *CompositePort {
		if exists && cached.composite == c {
			return cached
		}
		return NewCompositePort(c, p.opts...)
	})
}

// Composites returns every composite as a port.
func (p *MachinePort) Composites() map[string]port.CompositeComponentPort {
	composites := p.machine.Composites()
	out := make(map[string]port.CompositeComponentPort, len(composites))
	for name, c := range composites {
		out[name] = p.portFor(name, c)
	}
	return out
}

// ConnectComposites links composite src to dst, reporting success.
func (p *MachinePort) ConnectComposites(src, dst string) bool {
	return p.machine.Connect(src, dst) == nil
}

// CompositeConnections returns the machine's connection map.
func (p *MachinePort) CompositeConnections() map[string][]string {
	return p.machine.Connections()
}

// MachineStateValue reads key from the machine's state bag.
func (p *MachinePort) MachineStateValue(key string) (any, bool) {
	return p.machine.StateValue(key)
}

// SetMachineStateValue writes key into the machine's state bag.
func (p *MachinePort) SetMachineStateValue(key string, value any) {
	p.machine.UpdateState(key, value)
}

// UnwrapMachine returns the machine behind a port built by NewMachinePort.
func UnwrapMachine(p port.MachinePort) (component.Machine, bool) {
	mp, ok := p.(*MachinePort)
	if !ok || mp == nil {
		return nil, false
	}
	return mp.machine, true
}
