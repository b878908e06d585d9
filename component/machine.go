package component

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/c360/s8rbridge/errors"
)

// Machine is the new-style contract for a name-keyed group of composites with
// a state bag. Machines start active.
type Machine interface {
	MachineID() string
	Environment() *Environment

	AddComposite(name string, c Composite) error
	RemoveComposite(name string) (Composite, bool)
	Composite(name string) (Composite, bool)
	Composites() map[string]Composite

	Connect(src, dst string) error
	Connections() map[string][]string

	State() map[string]any
	StateValue(key string) (any, bool)
	UpdateState(key string, value any)

	Activate()
	Deactivate()
	IsActive() bool
	Shutdown()
}

// StandardMachine is the native Machine.
type StandardMachine struct {
	mu          sync.RWMutex
	machineID   string
	env         *Environment
	composites  map[string]Composite
	connections map[string][]string
	state       map[string]any
	active      bool
	shutdown    bool
	logger      *slog.Logger
}

var _ Machine = (*StandardMachine)(nil)

// NewMachine creates an active, empty machine.
func NewMachine(machineID string, env *Environment) *StandardMachine {
	if env == nil {
		env = NewEnvironment(nil)
	}
	return &StandardMachine{
		machineID:   machineID,
		env:         env,
		composites:  make(map[string]Composite),
		connections: make(map[string][]string),
		state:       make(map[string]any),
		active:      true,
		logger:      slog.Default().With("component", "machine", "machine_id", machineID),
	}
}

// MachineID returns the machine identifier.
func (m *StandardMachine) MachineID() string { return m.machineID }

// Environment returns the machine's environment.
func (m *StandardMachine) Environment() *Environment { return m.env }

// AddComposite adds or replaces the composite registered under name. A shut
// down machine rejects additions.
func (m *StandardMachine) AddComposite(name string, c Composite) error {
	if name == "" || c == nil {
		return errors.WrapInvalid(errors.ErrInvalidData, "Machine", "AddComposite", "argument validation")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return errors.WrapInvalid(errors.ErrTerminated, "Machine", "AddComposite", "shutdown check")
	}
	m.composites[name] = c
	return nil
}

// RemoveComposite removes the composite registered under name.
func (m *StandardMachine) RemoveComposite(name string) (Composite, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.composites[name]
	delete(m.composites, name)
	return c, ok
}

// Composite returns the composite registered under name.
func (m *StandardMachine) Composite(name string) (Composite, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.composites[name]
	return c, ok
}

// Composites returns a copy of the name-to-composite map.
func (m *StandardMachine) Composites() map[string]Composite {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.composites)
}

// Connect records a src->dst composite connection.
func (m *StandardMachine) Connect(src, dst string) error {
	if src == "" || dst == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "Machine", "Connect", "endpoint validation")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.connections[src], dst) {
		m.connections[src] = append(m.connections[src], dst)
	}
	return nil
}

// Connections returns every recorded composite connection.
func (m *StandardMachine) Connections() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConnections(m.connections)
}

// State returns a copy of the state bag.
func (m *StandardMachine) State() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.state)
}

// StateValue returns one entry of the state bag.
func (m *StandardMachine) StateValue(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.state[key]
	return v, ok
}

// UpdateState sets key in the state bag.
func (m *StandardMachine) UpdateState(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state[key] = value
}

// Activate marks the machine and its composites active. A shut down machine
// stays inactive.
func (m *StandardMachine) Activate() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		m.logger.Warn("Activate called on shut down machine")
		return
	}
	m.active = true
	composites := slices.Collect(maps.Values(m.composites))
	m.mu.Unlock()
	for _, c := range composites {
		c.Activate()
	}
}

// Deactivate marks the machine and its composites inactive.
func (m *StandardMachine) Deactivate() {
	m.mu.Lock()
	m.active = false
	composites := slices.Collect(maps.Values(m.composites))
	m.mu.Unlock()
	for _, c := range composites {
		c.Deactivate()
	}
}

// IsActive reports whether the machine is active.
func (m *StandardMachine) IsActive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Shutdown deactivates the machine, drops its composites and refuses further
// activation. It does not wait for anything.
func (m *StandardMachine) Shutdown() {
	m.Deactivate()
	m.mu.Lock()
	m.shutdown = true
	m.composites = make(map[string]Composite)
	m.connections = make(map[string][]string)
	m.mu.Unlock()
	m.logger.Info("Machine shut down")
}

// IsShutdown reports whether Shutdown has been called.
func (m *StandardMachine) IsShutdown() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shutdown
}
