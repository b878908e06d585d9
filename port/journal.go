package port

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// Journal holds the bookkeeping a ComponentPort exposes that the wrapped
// object may not track itself: activity log, domain events, free-form
// properties and a creation time. Adapters embed it. The zero value is not
// usable; create one with NewJournal.
type Journal struct {
	mu          sync.RWMutex
	activityLog []string
	events      []Event
	properties  map[string]any
	createdAt   time.Time
}

// NewJournal creates a journal stamped with createdAt and seeded with the
// given activity log entries.
func NewJournal(createdAt time.Time, seed ...string) *Journal {
	return &Journal{
		activityLog: slices.Clone(seed),
		properties:  make(map[string]any),
		createdAt:   createdAt,
	}
}

// Log appends a timestamped entry to the activity log.
func (j *Journal) Log(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.activityLog = append(j.activityLog, time.Now().UTC().Format(time.RFC3339Nano)+": "+entry)
}

func (j *Journal) ActivityLog() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.activityLog)
}

func (j *Journal) CreationTime() time.Time { return j.createdAt }

// Record appends e to the domain events.
func (j *Journal) Record(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, e)
}

func (j *Journal) DomainEvents() []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.events)
}

func (j *Journal) ClearEvents() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = nil
}

// Properties returns a copy of the property bag.
func (j *Journal) Properties() map[string]any {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return maps.Clone(j.properties)
}

func (j *Journal) SetProperty(key string, value any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.properties[key] = value
}
