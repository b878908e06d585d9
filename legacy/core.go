package legacy

import (
	"sync"
)

// CoreComponent is the second legacy family: a bare component whose state is
// a status name string rather than a typed status. Nothing in the translation
// layer references it directly; it is reached through reflective converters
// registered by type name.
//
// The zero value is usable and starts uninitialized with an empty state.
type CoreComponent struct {
	mu          sync.RWMutex
	identity    *Identity
	state       string
	name        string
	typ         string
	initialized bool
}

func (c *CoreComponent) Identity() *Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *CoreComponent) SetIdentity(id *Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = id
}

func (c *CoreComponent) State() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *CoreComponent) SetState(state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// Initialize marks the component initialized and sets an empty state to
// READY. Calling it again is a no-op.
func (c *CoreComponent) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return
	}
	c.initialized = true
	if c.state == "" {
		c.state = "READY"
	}
}

func (c *CoreComponent) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

func (c *CoreComponent) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *CoreComponent) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

func (c *CoreComponent) Type() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.typ
}

func (c *CoreComponent) SetType(typ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typ = typ
}
