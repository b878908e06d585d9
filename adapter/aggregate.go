package adapter

import (
	"fmt"
	"sync"
	"time"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/port"
)

// aggregate is the port face of a composite or machine. Its lifecycle
// collapses to ready, active and terminated, driven by the activation
// flag of the wrapped object. Termination is immediate and final.
type aggregate struct {
	*port.Journal
	name       string
	activate   func()
	deactivate func()
	isActive   func() bool
	shutdown   func()

	mu         sync.RWMutex
	id         identity.ComponentID
	terminated bool
}

func newAggregate(kind, objectID string, activate, deactivate func(), isActive func() bool, shutdown func()) *aggregate {
	// A non-empty reason cannot fail.
	id, _ := identity.New(kind + ": " + objectID)
	a := &aggregate{
		Journal:    port.NewJournal(time.Now().UTC()),
		name:       kind,
		activate:   activate,
		deactivate: deactivate,
		isActive:   isActive,
		shutdown:   shutdown,
		id:         id,
	}
	a.SetProperty("kind", kind)
	a.SetProperty("object_id", objectID)
	return a
}

// ID returns the identity the aggregate was created with.
func (a *aggregate) ID() identity.ComponentID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

// Lineage returns the lineage recorded on the aggregate's identity.
func (a *aggregate) Lineage() []string { return a.ID().Lineage() }

// AddToLineage appends entry to the aggregate's lineage.
func (a *aggregate) AddToLineage(entry string) {
	if entry == "" {
		return
	}
	a.mu.Lock()
	a.id = a.id.WithLineage(entry)
	a.mu.Unlock()
}

func (a *aggregate) isTerminated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.terminated
}

// LifecycleState returns the aggregate's current state.
func (a *aggregate) LifecycleState() lifecycle.State {
	switch {
	case a.isTerminated():
		return lifecycle.StateTerminated
	case a.isActive():
		return lifecycle.StateActive
	}
	return lifecycle.StateReady
}

// PublishData records a data event on channel.
func (a *aggregate) PublishData(channel string, data map[string]any) {
	a.Record(port.NewEvent("data_published", a.ID().ID(), channel, data))
}

// TransitionTo accepts only the states an aggregate can be in. Terminating
// and terminated both shut the object down.
func (a *aggregate) TransitionTo(target lifecycle.State) error {
	from := a.LifecycleState()
	if from == target {
		return nil
	}
	if from == lifecycle.StateTerminated {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, target),
			a.name, "TransitionTo", "terminal state check")
	}
	switch target {
	case lifecycle.StateActive:
		a.activate()
	case lifecycle.StateReady:
		a.deactivate()
	case lifecycle.StateTerminating, lifecycle.StateTerminated:
		return a.Terminate()
	default:
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s has no %s state", errors.ErrInvalidTransition, a.name, target),
			a.name, "TransitionTo", "target check")
	}
	a.changed(from, a.LifecycleState())
	return nil
}

func (a *aggregate) changed(from, to lifecycle.State) {
	a.Log(fmt.Sprintf("State changed: %s -> %s", from, to))
	a.Record(port.NewEvent("state_changed", a.ID().ID(), "",
		map[string]any{"from": from.String(), "to": to.String()}))
}

// Activate moves the aggregate to StateActive.
func (a *aggregate) Activate() error { return a.TransitionTo(lifecycle.StateActive) }

// Deactivate moves an active aggregate back to StateReady.
func (a *aggregate) Deactivate() error {
	if a.LifecycleState() != lifecycle.StateActive {
		return errors.WrapInvalid(errors.ErrNotActive, a.name, "Deactivate", "state check")
	}
	return a.TransitionTo(lifecycle.StateReady)
}

// Terminate shuts the wrapped object down once; later calls are no-ops.
func (a *aggregate) Terminate() error {
	from := a.LifecycleState()
	a.mu.Lock()
	if a.terminated {
		a.mu.Unlock()
		return nil
	}
	a.terminated = true
	a.mu.Unlock()
	a.shutdown()
	a.changed(from, lifecycle.StateTerminated)
	return nil
}
