package component

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/c360/s8rbridge/errors"
)

// Composite is the new-style contract for a name-keyed group of units with
// directed connections. StandardComposite is the native implementation;
// adapter.CompositeWrapper implements it over a legacy composite.
type Composite interface {
	CompositeID() string
	Environment() *Environment

	AddComponent(name string, u Unit) error
	RemoveComponent(name string) (Unit, bool)
	Component(name string) (Unit, bool)
	Components() map[string]Unit

	Connect(src, dst string) error
	Disconnect(src, dst string) bool
	Connections() map[string][]string
	ConnectionsFrom(src string) []string

	Activate()
	Deactivate()
	IsActive() bool
}

// StandardComposite is the native Composite. Connections may be recorded
// before either endpoint is added.
type StandardComposite struct {
	mu          sync.RWMutex
	compositeID string
	env         *Environment
	units       map[string]Unit
	connections map[string][]string
	active      bool
	logger      *slog.Logger
}

var _ Composite = (*StandardComposite)(nil)

// NewComposite creates an inactive, empty composite.
func NewComposite(compositeID string, env *Environment) *StandardComposite {
	if env == nil {
		env = NewEnvironment(nil)
	}
	return &StandardComposite{
		compositeID: compositeID,
		env:         env,
		units:       make(map[string]Unit),
		connections: make(map[string][]string),
		logger:      slog.Default().With("component", "composite", "composite_id", compositeID),
	}
}

// CompositeID returns the composite identifier.
func (c *StandardComposite) CompositeID() string { return c.compositeID }

// Environment returns the composite's environment.
func (c *StandardComposite) Environment() *Environment { return c.env }

// AddComponent adds or replaces the unit registered under name.
func (c *StandardComposite) AddComponent(name string, u Unit) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "Composite", "AddComponent", "name validation")
	}
	if u == nil {
		return errors.WrapInvalid(errors.ErrInvalidData, "Composite", "AddComponent", "unit validation")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.units[name]; exists {
		c.logger.Debug("Replacing component", "name", name)
	}
	c.units[name] = u
	return nil
}

// RemoveComponent removes the unit registered under name along with every
// connection that touches it.
func (c *StandardComposite) RemoveComponent(name string) (Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.units[name]
	if !ok {
		return nil, false
	}
	delete(c.units, name)
	delete(c.connections, name)
	for src, targets := range c.connections {
		targets = slices.DeleteFunc(slices.Clone(targets), func(t string) bool { return t == name })
		if len(targets) == 0 {
			delete(c.connections, src)
		} else {
			c.connections[src] = targets
		}
	}
	return u, true
}

// Component returns the unit registered under name.
func (c *StandardComposite) Component(name string) (Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.units[name]
	return u, ok
}

// Components returns a copy of the name-to-unit map.
func (c *StandardComposite) Components() map[string]Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.units)
}

// Connect records src->dst. Duplicates are ignored.
func (c *StandardComposite) Connect(src, dst string) error {
	if src == "" || dst == "" {
		return errors.WrapInvalid(
			fmt.Errorf("%w: empty endpoint in %q -> %q", errors.ErrInvalidData, src, dst),
			"Composite", "Connect", "endpoint validation")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.connections[src], dst) {
		c.connections[src] = append(c.connections[src], dst)
	}
	return nil
}

// Disconnect removes src->dst and reports whether it existed.
func (c *StandardComposite) Disconnect(src, dst string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	targets := c.connections[src]
	i := slices.Index(targets, dst)
	if i < 0 {
		return false
	}
	targets = slices.Delete(slices.Clone(targets), i, i+1)
	if len(targets) == 0 {
		delete(c.connections, src)
	} else {
		c.connections[src] = targets
	}
	return true
}

// Connections returns every recorded connection, pending ones included.
func (c *StandardComposite) Connections() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneConnections(c.connections)
}

// ConnectionsFrom returns the targets of src that are present now. A
// connection whose endpoints are not both present is pending and omitted.
func (c *StandardComposite) ConnectionsFrom(src string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterConnections(c.connections, src, func(name string) bool {
		_, ok := c.units[name]
		return ok
	})
}

// Activate marks the composite active.
func (c *StandardComposite) Activate() { c.setActive(true) }

// Deactivate marks the composite inactive.
func (c *StandardComposite) Deactivate() { c.setActive(false) }

func (c *StandardComposite) setActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = active
}

// IsActive reports whether the composite is active.
func (c *StandardComposite) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func cloneConnections(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for src, targets := range in {
		out[src] = slices.Clone(targets)
	}
	return out
}

// FilterConnections keeps only the targets of src whose endpoints are both
// present according to has.
func FilterConnections(connections map[string][]string, src string, has func(string) bool) []string {
	out := []string{}
	if !has(src) {
		return out
	}
	for _, dst := range connections[src] {
		if has(dst) {
			out = append(out, dst)
		}
	}
	return out
}
