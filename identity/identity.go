// Package identity provides the immutable ComponentID value object shared by every
// component family: a stable id token, the reason the component was created, an
// append-only lineage and an optional parent back-reference.
package identity

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360/s8rbridge/errors"
)

// ComponentID identifies a component. The zero value is not a valid id.
//
// ComponentID is a value type: every method returns data copies and WithLineage
// returns a new value, so a ComponentID can be shared freely between goroutines.
type ComponentID struct {
	id        string
	reason    string
	lineage   []string
	parentID  string
	createdAt time.Time
}

// New generates a fresh ComponentID for the given reason. When a parent is supplied
// the child inherits the parent's lineage followed by the parent's id.
func New(reason string, parent ...ComponentID) (ComponentID, error) {
	if strings.TrimSpace(reason) == "" {
		return ComponentID{}, errors.WrapInvalid(errors.ErrInvalidData, "ComponentID", "New", "reason validation")
	}

	cid := ComponentID{
		id:        uuid.NewString(),
		reason:    reason,
		createdAt: time.Now().UTC(),
	}

	if len(parent) > 0 && !parent[0].IsZero() {
		p := parent[0]
		cid.parentID = p.id
		cid.lineage = append(slices.Clone(p.lineage), p.id)
	}

	return cid, nil
}

// FromValues rebuilds a ComponentID from raw legacy fields. The lineage is copied.
func FromValues(id, reason string, lineage []string) (ComponentID, error) {
	if strings.TrimSpace(id) == "" {
		return ComponentID{}, errors.WrapInvalid(errors.ErrInvalidData, "ComponentID", "FromValues", "id validation")
	}

	return ComponentID{
		id:        id,
		reason:    reason,
		lineage:   slices.Clone(lineage),
		createdAt: time.Now().UTC(),
	}, nil
}

// MustFromValues is FromValues for tests and literals; it panics on an empty id.
func MustFromValues(id, reason string, lineage []string) ComponentID {
	cid, err := FromValues(id, reason, lineage)
	if err != nil {
		panic(err)
	}
	return cid
}

// WithParent returns a copy carrying the given parent back-reference.
func (c ComponentID) WithParent(parentID string) ComponentID {
	c.lineage = slices.Clone(c.lineage)
	c.parentID = parentID
	return c
}

// WithLineage returns a copy with entry appended to the lineage.
func (c ComponentID) WithLineage(entry string) ComponentID {
	lineage := make([]string, len(c.lineage), len(c.lineage)+1)
	copy(lineage, c.lineage)
	c.lineage = append(lineage, entry)
	return c
}

// ID returns the stable id token.
func (c ComponentID) ID() string { return c.id }

// Reason returns the creation purpose.
func (c ComponentID) Reason() string { return c.reason }

// Lineage returns a copy of the ancestry markers, oldest first.
func (c ComponentID) Lineage() []string {
	if c.lineage == nil {
		return []string{}
	}
	return slices.Clone(c.lineage)
}

// ParentID returns the parent back-reference, if any.
func (c ComponentID) ParentID() (string, bool) {
	return c.parentID, c.parentID != ""
}

// CreatedAt returns when this value was created or rebuilt.
func (c ComponentID) CreatedAt() time.Time { return c.createdAt }

// IsZero reports whether c is the zero value.
func (c ComponentID) IsZero() bool { return c.id == "" }

// ShortID returns the first eight characters of the id, for log lines.
func (c ComponentID) ShortID() string {
	if len(c.id) <= 8 {
		return c.id
	}
	return c.id[:8]
}

// Equal compares ids. Reason and lineage do not take part in identity.
func (c ComponentID) Equal(other ComponentID) bool {
	return c.id == other.id
}

// String implements fmt.Stringer
func (c ComponentID) String() string {
	return fmt.Sprintf("ComponentID{%s, reason=%q, lineage=%d}", c.id, c.reason, len(c.lineage))
}

type componentIDJSON struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Lineage   []string  `json:"lineage"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON implements json.Marshaler
func (c ComponentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(componentIDJSON{
		ID:        c.id,
		Reason:    c.reason,
		Lineage:   c.Lineage(),
		ParentID:  c.parentID,
		CreatedAt: c.createdAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ComponentID) UnmarshalJSON(data []byte) error {
	var raw componentIDJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WrapInvalid(err, "ComponentID", "UnmarshalJSON", "decode")
	}
	if raw.ID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "ComponentID", "UnmarshalJSON", "id validation")
	}
	*c = ComponentID{
		id:        raw.ID,
		reason:    raw.Reason,
		lineage:   raw.Lineage,
		parentID:  raw.ParentID,
		createdAt: raw.CreatedAt,
	}
	return nil
}
