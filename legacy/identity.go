package legacy

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Identity is the legacy notion of "who is this tube". An Adam identity has no
// parent; a child identity records its parent's id in its lineage.
type Identity struct {
	mu          sync.RWMutex
	uniqueID    string
	reason      string
	lineage     []string
	envContext  map[string]string
	parent      *Identity
	descendants []*Identity
	adam        bool
}

// NewAdamIdentity creates a root identity.
func NewAdamIdentity(reason string, env *Environment) *Identity {
	return newIdentity(reason, env, nil)
}

// NewChildIdentity creates an identity descending from parent.
func NewChildIdentity(reason string, env *Environment, parent *Identity) *Identity {
	id := newIdentity(reason, env, parent)
	if parent != nil {
		parent.mu.Lock()
		parent.descendants = append(parent.descendants, id)
		parent.mu.Unlock()
	}
	return id
}

// NewIdentityFromValues rebuilds an identity from raw fields.
func NewIdentityFromValues(uniqueID, reason string, lineage []string) *Identity {
	return &Identity{
		uniqueID:   uniqueID,
		reason:     reason,
		lineage:    slices.Clone(lineage),
		envContext: make(map[string]string),
		adam:       len(lineage) == 0,
	}
}

func newIdentity(reason string, env *Environment, parent *Identity) *Identity {
	id := &Identity{
		reason:     reason,
		envContext: make(map[string]string),
		parent:     parent,
		adam:       parent == nil,
	}
	seed := reason + uuid.NewString()
	if env != nil {
		seed += env.String()
		maps.Copy(id.envContext, env.Parameters())
	}
	if parent != nil {
		seed += parent.UniqueID()
		id.lineage = append(parent.Lineage(), parent.UniqueID())
	}
	sum := sha256.Sum256([]byte(seed))
	id.uniqueID = hex.EncodeToString(sum[:])
	return id
}

// UniqueID returns the identity's id token.
func (i *Identity) UniqueID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.uniqueID
}

// Reason returns why the identity was created.
func (i *Identity) Reason() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.reason
}

// Lineage returns a copy of the ancestry markers.
func (i *Identity) Lineage() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.lineage)
}

// AddToLineage appends entry to the lineage. Empty entries are ignored.
func (i *Identity) AddToLineage(entry string) {
	if entry == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lineage = append(i.lineage, entry)
}

// EnvironmentContext returns a copy of the captured environment context.
func (i *Identity) EnvironmentContext() map[string]string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return maps.Clone(i.envContext)
}

// AddEnvironmentContext records key=value in the environment context.
func (i *Identity) AddEnvironmentContext(key, value string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.envContext[key] = value
}

// IsAdam reports whether the identity was created without a parent.
func (i *Identity) IsAdam() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.adam
}

// Parent returns the parent identity, or nil for an Adam identity.
func (i *Identity) Parent() *Identity {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.parent
}

// Descendants returns the identities created as children of i.
func (i *Identity) Descendants() []*Identity {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.descendants)
}
