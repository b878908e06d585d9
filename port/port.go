// Package port defines the abstract contracts that decouple client code from
// any concrete component family. Adapters in the adapter and direct packages
// implement these interfaces over the new and legacy families.
package port

import (
	"time"

	"github.com/google/uuid"

	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/lifecycle"
)

// Event is a domain event recorded by a component.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	SourceID   string         `json:"source_id"`
	Channel    string         `json:"channel,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewEvent builds an Event with a fresh id and the current time.
func NewEvent(eventType, sourceID, channel string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SourceID:   sourceID,
		Channel:    channel,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// ComponentPort is the family-independent view of a single component.
type ComponentPort interface {
	ID() identity.ComponentID
	LifecycleState() lifecycle.State
	Lineage() []string
	ActivityLog() []string
	CreationTime() time.Time
	DomainEvents() []Event
	Properties() map[string]any

	AddToLineage(entry string)
	ClearEvents()
	PublishData(channel string, data map[string]any)

	TransitionTo(state lifecycle.State) error
	Activate() error
	Deactivate() error
	Terminate() error
}

// CompositeComponentPort is a named collection of components with directed
// connections between them.
type CompositeComponentPort interface {
	ComponentPort

	CompositeID() string
	AddComponent(name string, c ComponentPort) bool
	RemoveComponent(name string) (ComponentPort, bool)
	Component(name string) (ComponentPort, bool)
	HasComponent(name string) bool
	Components() map[string]ComponentPort
	Connect(src, dst string) bool
	Disconnect(src, dst string) bool
	Connections() map[string][]string
	ConnectionsFrom(src string) []string
}

// MachineState is the coarse run state of a machine.
type MachineState string

// Machine run states
const (
	MachineRunning MachineState = "running"
	MachineStopped MachineState = "stopped"
)

// MachinePort is a named collection of composites with a state bag.
type MachinePort interface {
	ComponentPort

	MachineID() string
	MachineState() MachineState
	SetMachineState(state MachineState)
	Start() bool
	Stop() bool

	AddComposite(name string, c CompositeComponentPort) bool
	RemoveComposite(name string) (CompositeComponentPort, bool)
	Composite(name string) (CompositeComponentPort, bool)
	Composites() map[string]CompositeComponentPort
	ConnectComposites(src, dst string) bool
	CompositeConnections() map[string][]string

	MachineStateValue(key string) (any, bool)
	SetMachineStateValue(key string, value any)
}
