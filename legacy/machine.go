package legacy

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Machine is a legacy name-keyed group of composites with a state bag.
// Machines start active.
type Machine struct {
	mu          sync.RWMutex
	machineID   string
	env         *Environment
	composites  map[string]*Composite
	connections map[string][]string
	state       map[string]any
	active      bool
	logger      *slog.Logger
}

// NewMachine creates an active, empty machine.
func NewMachine(machineID string, env *Environment) *Machine {
	return &Machine{
		machineID:   machineID,
		env:         env,
		composites:  make(map[string]*Composite),
		connections: make(map[string][]string),
		state:       make(map[string]any),
		active:      true,
		logger:      slog.Default().With("component", "legacy.Machine", "machine_id", machineID),
	}
}

// MachineID returns the machine identifier.
func (m *Machine) MachineID() string { return m.machineID }

// Environment returns the machine's environment, which may be nil.
func (m *Machine) Environment() *Environment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.env
}

// AddComposite adds or replaces the composite registered under name.
func (m *Machine) AddComposite(name string, c *Composite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.composites[name] = c
}

// RemoveComposite removes the composite registered under name.
func (m *Machine) RemoveComposite(name string) (*Composite, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.composites[name]
	delete(m.composites, name)
	return c, ok
}

// Composite returns the composite registered under name.
func (m *Machine) Composite(name string) (*Composite, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.composites[name]
	return c, ok
}

// Composites returns a copy of the name-to-composite map.
func (m *Machine) Composites() map[string]*Composite {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.composites)
}

// Connect records a src->dst composite connection.
func (m *Machine) Connect(src, dst string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.connections[src], dst) {
		m.connections[src] = append(m.connections[src], dst)
	}
}

// Connections returns a deep copy of every recorded connection.
func (m *Machine) Connections() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]string, len(m.connections))
	for src, targets := range m.connections {
		out[src] = slices.Clone(targets)
	}
	return out
}

// State returns a copy of the state bag.
func (m *Machine) State() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.state)
}

// UpdateState sets key in the state bag.
func (m *Machine) UpdateState(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[key] = value
}

// IsActive reports whether the machine is active.
func (m *Machine) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Activate marks the machine and its composites active.
func (m *Machine) Activate() {
	m.setActive(true)
}

// Deactivate marks the machine and its composites inactive.
func (m *Machine) Deactivate() {
	m.setActive(false)
}

func (m *Machine) setActive(active bool) {
	m.mu.Lock()
	m.active = active
	composites := slices.Collect(maps.Values(m.composites))
	m.mu.Unlock()

	for _, c := range composites {
		if active {
			c.Activate()
		} else {
			c.Deactivate()
		}
	}
	m.logger.Debug("Machine activation changed", "active", active)
}

// Shutdown deactivates the machine and drops every composite. It is
// immediate and irreversible.
func (m *Machine) Shutdown() {
	m.Deactivate()
	m.mu.Lock()
	m.composites = make(map[string]*Composite)
	m.connections = make(map[string][]string)
	m.mu.Unlock()
	m.logger.Info("Machine shut down")
}
