package legacy

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/lifecycle"
)

// Tube is the legacy component. Status and Phase are independent fields:
// legacy code updates them separately and they can disagree.
type Tube struct {
	mu          sync.RWMutex
	identity    *Identity
	env         *Environment
	name        string
	status      lifecycle.Status
	phase       lifecycle.Phase
	activityLog []string
	createdAt   time.Time
	logger      *slog.Logger
}

// NewTube creates an Adam tube. The tube walks its construction phases and
// ends in status ready and phase ready.
func NewTube(reason string, env *Environment) (*Tube, error) {
	if err := validate(reason, env); err != nil {
		return nil, errors.InitializationFailed("Tube", "NewTube", "tube", err)
	}
	return newTube(NewAdamIdentity(reason, env), env), nil
}

// NewChildTube creates a tube whose identity descends from parent's.
func NewChildTube(reason string, env *Environment, parent *Tube) (*Tube, error) {
	if err := validate(reason, env); err != nil {
		return nil, errors.InitializationFailed("Tube", "NewChildTube", "child tube", err)
	}
	if parent == nil {
		return nil, errors.InitializationFailed("Tube", "NewChildTube", "child tube",
			fmt.Errorf("%w: parent tube is nil", errors.ErrInvalidData))
	}
	t := newTube(NewChildIdentity(reason, env, parent.Identity()), env)
	parent.Log("Registered child tube: " + t.UniqueID())
	return t, nil
}

// NewTubeWithIdentity wraps an existing identity, for callers that manage
// identities themselves.
func NewTubeWithIdentity(id *Identity, env *Environment) *Tube {
	if env == nil {
		env = NewEnvironment(nil)
	}
	return newTube(id, env)
}

func validate(reason string, env *Environment) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is empty", errors.ErrInvalidData)
	}
	if env == nil {
		return fmt.Errorf("%w: environment is nil", errors.ErrInvalidData)
	}
	return nil
}

func newTube(id *Identity, env *Environment) *Tube {
	t := &Tube{
		identity:  id,
		env:       env,
		status:    lifecycle.StatusInitializing,
		phase:     lifecycle.PhaseConception,
		createdAt: time.Now().UTC(),
		logger:    slog.Default().With("component", "legacy.Tube"),
	}
	t.Log("Tube created with reason: " + id.Reason())
	for _, p := range []lifecycle.Phase{
		lifecycle.PhaseInitializing,
		lifecycle.PhaseConfiguring,
		lifecycle.PhaseSpecializing,
		lifecycle.PhaseDevelopingFeatures,
		lifecycle.PhaseReady,
	} {
		t.SetPhase(p)
	}
	t.SetStatus(lifecycle.StatusReady)
	return t
}

// Identity returns the tube's identity.
func (t *Tube) Identity() *Identity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.identity
}

// UniqueID returns the identity's id token.
func (t *Tube) UniqueID() string { return t.Identity().UniqueID() }

// Reason returns the identity's reason.
func (t *Tube) Reason() string { return t.Identity().Reason() }

// Environment returns the environment the tube was created in.
func (t *Tube) Environment() *Environment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.env
}

// Name returns the display name, or "" when unset.
func (t *Tube) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// SetName sets the display name.
func (t *Tube) SetName(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
	t.Log("Name set to: " + name)
}

// Status returns the coarse lifecycle signal.
func (t *Tube) Status() lifecycle.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetStatus sets the coarse lifecycle signal without validation.
func (t *Tube) SetStatus(s lifecycle.Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
	t.Log("Status changed to: " + s.String())
}

// Phase returns the fine-grained lifecycle signal.
func (t *Tube) Phase() lifecycle.Phase {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.phase
}

// SetPhase sets the fine-grained lifecycle signal without validation.
func (t *Tube) SetPhase(p lifecycle.Phase) {
	t.mu.Lock()
	t.phase = p
	t.mu.Unlock()
	t.Log("Phase changed to: " + p.String())
}

// Lineage returns the identity's lineage.
func (t *Tube) Lineage() []string { return t.Identity().Lineage() }

// AddToLineage appends entry to the identity's lineage.
func (t *Tube) AddToLineage(entry string) {
	if entry == "" {
		return
	}
	t.Identity().AddToLineage(entry)
	t.Log("Added to lineage: " + entry)
}

// ActivityLog returns a copy of the tube's log entries.
func (t *Tube) ActivityLog() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.activityLog)
}

// Log appends a timestamped entry to the activity log.
func (t *Tube) Log(entry string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activityLog = append(t.activityLog, time.Now().UTC().Format(time.RFC3339Nano)+" "+entry)
}

// CreatedAt returns when the tube was created.
func (t *Tube) CreatedAt() time.Time { return t.createdAt }

// Terminate moves the tube through terminating to terminated. It is idempotent.
func (t *Tube) Terminate() {
	if t.Status() == lifecycle.StatusTerminated {
		return
	}
	t.SetPhase(lifecycle.PhaseTerminating)
	t.Log("Releasing allocated resources")
	t.SetPhase(lifecycle.PhaseTerminated)
	t.SetStatus(lifecycle.StatusTerminated)
	t.logger.Debug("Tube terminated", "tube_id", t.UniqueID())
}
