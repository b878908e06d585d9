package legacy

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Environment is the legacy string parameter bag a tube operates in.
// The zero value is an empty environment ready to use.
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

// Parameter returns the value for key, or "" when unset.
func (e *Environment) Parameter(key string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params[key]
}

// SetParameter sets key to value.
func (e *Environment) SetParameter(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.params == nil {
		e.params = make(map[string]string)
	}
	e.params[key] = value
}

// ParameterKeys returns the parameter names in sorted order.
func (e *Environment) ParameterKeys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.params))
}

// Parameters returns a copy of every parameter.
func (e *Environment) Parameters() map[string]string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]string, len(e.params))
	maps.Copy(out, e.params)
	return out
}

// String renders the parameters deterministically.
func (e *Environment) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range e.ParameterKeys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(e.Parameter(k))
	}
	sb.WriteByte('}')
	return sb.String()
}
