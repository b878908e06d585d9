package direct

import (
	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
	"github.com/c360/s8rbridge/legacy"
)

const identityType = "*legacy.Identity"

// IdentityConverter translates *legacy.Identity values.
type IdentityConverter struct {
	issues *feedback.Logger
}

// NewIdentityConverter creates a converter. A nil logger reports into a
// private collector.
func NewIdentityConverter(issues *feedback.Logger) *IdentityConverter {
	return &IdentityConverter{issues: named(issues, "direct.identity")}
}

func (c *IdentityConverter) check(method string, id *legacy.Identity) error {
	if id != nil {
		return nil
	}
	c.issues.ReportTypeMismatch(method, "nil", identityType)
	return errors.TypeMismatch("IdentityConverter", method, identityType, "nil")
}

// ToComponentID rebuilds a ComponentID from a legacy identity.
func (c *IdentityConverter) ToComponentID(id *legacy.Identity) (identity.ComponentID, error) {
	if err := c.check("ToComponentID", id); err != nil {
		return identity.ComponentID{}, err
	}
	cid, err := identity.FromValues(id.UniqueID(), id.Reason(), id.Lineage())
	if err != nil {
		c.issues.ReportPropertyNotFound("uniqueId")
		return identity.ComponentID{}, err
	}
	return cid, nil
}

// FromTube returns the ComponentID of a tube's identity.
func (c *IdentityConverter) FromTube(t *legacy.Tube) (identity.ComponentID, error) {
	if t == nil {
		c.issues.ReportTypeMismatch("FromTube", "nil", tubeType)
		return identity.ComponentID{}, errors.TypeMismatch("IdentityConverter", "FromTube", tubeType, "nil")
	}
	return c.ToComponentID(t.Identity())
}

// ToLegacyIDString returns the id token legacy code keys on.
func (c *IdentityConverter) ToLegacyIDString(cid identity.ComponentID) string {
	return cid.ID()
}

// CreateAdam creates a parentless legacy identity.
func (c *IdentityConverter) CreateAdam(reason string, env *legacy.Environment) (*legacy.Identity, error) {
	if env == nil {
		c.issues.ReportTypeMismatch("CreateAdam", "nil", environmentType)
		return nil, errors.TypeMismatch("IdentityConverter", "CreateAdam", environmentType, "nil")
	}
	return legacy.NewAdamIdentity(reason, env), nil
}

// CreateChild creates a legacy identity descending from parent.
func (c *IdentityConverter) CreateChild(reason string, env *legacy.Environment, parent *legacy.Identity) (*legacy.Identity, error) {
	if env == nil {
		c.issues.ReportTypeMismatch("CreateChild", "nil", environmentType)
		return nil, errors.TypeMismatch("IdentityConverter", "CreateChild", environmentType, "nil")
	}
	if err := c.check("CreateChild", parent); err != nil {
		return nil, err
	}
	return legacy.NewChildIdentity(reason, env, parent), nil
}

// Extract reads every identity field into a map keyed id, reason, lineage,
// environmentContext and isAdam.
func (c *IdentityConverter) Extract(id *legacy.Identity) (map[string]any, error) {
	if err := c.check("Extract", id); err != nil {
		return nil, err
	}
	return map[string]any{
		"id":                 id.UniqueID(),
		"reason":             id.Reason(),
		"lineage":            id.Lineage(),
		"environmentContext": id.EnvironmentContext(),
		"isAdam":             id.IsAdam(),
	}, nil
}

// AddToLineage appends entry to id's lineage.
func (c *IdentityConverter) AddToLineage(id *legacy.Identity, entry string) error {
	if err := c.check("AddToLineage", id); err != nil {
		return err
	}
	id.AddToLineage(entry)
	return nil
}

// Lineage returns id's lineage.
func (c *IdentityConverter) Lineage(id *legacy.Identity) ([]string, error) {
	if err := c.check("Lineage", id); err != nil {
		return nil, err
	}
	return id.Lineage(), nil
}

// EnvironmentContext returns id's environment context.
func (c *IdentityConverter) EnvironmentContext(id *legacy.Identity) (map[string]string, error) {
	if err := c.check("EnvironmentContext", id); err != nil {
		return nil, err
	}
	return id.EnvironmentContext(), nil
}

// AddEnvironmentContext sets key to value in id's environment context.
func (c *IdentityConverter) AddEnvironmentContext(id *legacy.Identity, key, value string) error {
	if err := c.check("AddEnvironmentContext", id); err != nil {
		return err
	}
	id.AddEnvironmentContext(key, value)
	return nil
}

// IsAdam reports whether id has no parent.
func (c *IdentityConverter) IsAdam(id *legacy.Identity) (bool, error) {
	if err := c.check("IsAdam", id); err != nil {
		return false, err
	}
	return id.IsAdam(), nil
}

func named(issues *feedback.Logger, category string) *feedback.Logger {
	if issues != nil {
		return issues.Named(category)
	}
	return feedback.NewLogger(category, feedback.NewCollector(feedback.DefaultCollectorConfig()))
}
