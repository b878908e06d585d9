package component

import (
	"maps"
	"slices"
	"sync"
)

// Environment is the string parameter bag a new-style component runs in.
type Environment struct {
	mu     sync.RWMutex
	params map[string]string
}

// NewEnvironment creates an environment seeded with params.
func NewEnvironment(params map[string]string) *Environment {
	env := &Environment{params: make(map[string]string, len(params))}
	maps.Copy(env.params, params)
	return env
}

// Parameter returns the value for key and whether it is set.
func (e *Environment) Parameter(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.params[key]
	return v, ok
}

// SetParameter sets key to value.
func (e *Environment) SetParameter(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params[key] = value
}

// Parameters returns a copy of every parameter.
func (e *Environment) Parameters() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.params)
}

// Keys returns the parameter names in sorted order.
func (e *Environment) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.params))
}

// Clone returns an independent copy.
func (e *Environment) Clone() *Environment {
	return NewEnvironment(e.Parameters())
}
