package legacy

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Composite is a legacy name-keyed group of tubes with directed connections.
// Connections may name tubes that have not been added yet.
type Composite struct {
	mu          sync.RWMutex
	compositeID string
	env         *Environment
	tubes       map[string]*Tube
	connections map[string][]string
	active      bool
	eventLog    []string
	logger      *slog.Logger
}

// NewComposite creates an active, empty composite. A nil environment is kept
// as nil; callers translating it supply their own default.
func NewComposite(compositeID string, env *Environment) *Composite {
	c := &Composite{
		compositeID: compositeID,
		env:         env,
		tubes:       make(map[string]*Tube),
		connections: make(map[string][]string),
		active:      true,
		logger:      slog.Default().With("component", "legacy.Composite", "composite_id", compositeID),
	}
	c.logEvent("Composite initialized: " + compositeID)
	return c
}

// CompositeID returns the composite identifier.
func (c *Composite) CompositeID() string { return c.compositeID }

// Environment returns the composite's environment, which may be nil.
func (c *Composite) Environment() *Environment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.env
}

// AddTube adds or replaces the tube registered under name.
func (c *Composite) AddTube(name string, t *Tube) {
	c.mu.Lock()
	if _, exists := c.tubes[name]; exists {
		c.logger.Warn("Replacing existing tube", "name", name)
	}
	c.tubes[name] = t
	c.mu.Unlock()
	c.logEvent("Tube added to composite: " + name)
}

// CreateTube creates a tube in the composite's environment and adds it.
func (c *Composite) CreateTube(name, reason string) (*Tube, error) {
	env := c.Environment()
	if env == nil {
		env = NewEnvironment(nil)
	}
	t, err := NewTube(reason, env)
	if err != nil {
		return nil, err
	}
	c.AddTube(name, t)
	return t, nil
}

// RemoveTube removes the tube registered under name.
func (c *Composite) RemoveTube(name string) (*Tube, bool) {
	c.mu.Lock()
	t, ok := c.tubes[name]
	delete(c.tubes, name)
	c.mu.Unlock()
	if ok {
		c.logEvent("Tube removed from composite: " + name)
	}
	return t, ok
}

// Tube returns the tube registered under name.
func (c *Composite) Tube(name string) (*Tube, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tubes[name]
	return t, ok
}

// Tubes returns a copy of the name-to-tube map.
func (c *Composite) Tubes() map[string]*Tube {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.tubes)
}

// Connect records a src->dst connection. Duplicate connections are ignored.
func (c *Composite) Connect(src, dst string) {
	c.mu.Lock()
	if slices.Contains(c.connections[src], dst) {
		c.mu.Unlock()
		return
	}
	c.connections[src] = append(c.connections[src], dst)
	c.mu.Unlock()
	c.logEvent("Connected tubes: " + src + " -> " + dst)
}

// Disconnect removes a src->dst connection and reports whether it existed.
func (c *Composite) Disconnect(src, dst string) bool {
	c.mu.Lock()
	targets := c.connections[src]
	i := slices.Index(targets, dst)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	targets = slices.Delete(slices.Clone(targets), i, i+1)
	if len(targets) == 0 {
		delete(c.connections, src)
	} else {
		c.connections[src] = targets
	}
	c.mu.Unlock()
	c.logEvent("Disconnected tubes: " + src + " -> " + dst)
	return true
}

// Connections returns a deep copy of every recorded connection.
func (c *Composite) Connections() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]string, len(c.connections))
	for src, targets := range c.connections {
		out[src] = slices.Clone(targets)
	}
	return out
}

// IsActive reports whether the composite is active.
func (c *Composite) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Activate marks the composite active.
func (c *Composite) Activate() {
	c.mu.Lock()
	changed := !c.active
	c.active = true
	c.mu.Unlock()
	if changed {
		c.logEvent("Composite activated: " + c.compositeID)
	}
}

// Deactivate marks the composite inactive.
func (c *Composite) Deactivate() {
	c.mu.Lock()
	changed := c.active
	c.active = false
	c.mu.Unlock()
	if changed {
		c.logEvent("Composite deactivated: " + c.compositeID)
	}
}

// EventLog returns a copy of the composite's event log.
func (c *Composite) EventLog() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.eventLog)
}

func (c *Composite) logEvent(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventLog = append(c.eventLog, time.Now().UTC().Format(time.RFC3339Nano)+" "+description)
}
