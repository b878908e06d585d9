package reflective

import (
	"reflect"

	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/identity"
)

func identityRole(envType reflect.Type) role {
	return role{
		key: "identity<" + envType.String() + ">",
		methods: []signature{
			sig("UniqueID", nil, stringType),
			sig("Reason", nil, stringType),
			sig("Lineage", nil, stringSliceType),
			sig("EnvironmentContext", nil, stringMapType),
			sig("IsAdam", nil, boolType),
			sig("AddToLineage", args(stringType)),
			sig("AddEnvironmentContext", args(stringType, stringType)),
		},
		constructors: []signature{
			sig("adam", args(stringType, envType), selfType),
			sig("child", args(stringType, envType, selfType), selfType),
		},
	}
}

// IdentityConverter translates legacy identities of a type known only by
// its registered name. The type must have "adam" and "child" constructors
// registered.
type IdentityConverter struct {
	contract *Contract
	env      *EnvironmentConverter
	issues   *feedback.Logger
}

// NewIdentityConverter resolves typeName against the environment type of env
// and verifies the whole identity contract.
func NewIdentityConverter(
	reg *TypeRegistry, typeName string, env *EnvironmentConverter, issues *feedback.Logger,
) (*IdentityConverter, error) {
	issues = privateIssues(issues, "reflective.identity")
	contract, err := reg.resolve(identityRole(env.Type()), typeName)
	if err != nil {
		issues.ReportReflectionError(typeName, err)
		return nil, err
	}
	return &IdentityConverter{contract: contract, env: env, issues: issues}, nil
}

// Contract returns the contract the converter was built from.
func (c *IdentityConverter) Contract() *Contract { return c.contract }

// Type returns the legacy identity type the converter handles.
func (c *IdentityConverter) Type() reflect.Type { return c.contract.Type }

// Accepts reports whether id satisfies the converter's contract.
func (c *IdentityConverter) Accepts(id any) bool { return c.contract.Accepts(id) }

// ToComponentID rebuilds a ComponentID from a legacy identity.
func (c *IdentityConverter) ToComponentID(legacyID any) (identity.ComponentID, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "ToComponentID", legacyID)
	if err != nil {
		return identity.ComponentID{}, err
	}
	id, err := c.stringField(recv, "UniqueID")
	if err != nil {
		return identity.ComponentID{}, err
	}
	reason, err := c.stringField(recv, "Reason")
	if err != nil {
		return identity.ComponentID{}, err
	}
	lineage, err := callValue[[]string](c.contract, "IdentityConverter", "Lineage", recv)
	if err != nil {
		return identity.ComponentID{}, err
	}
	cid, err := identity.FromValues(id, reason, lineage)
	if err != nil {
		c.issues.ReportPropertyNotFound("uniqueId")
		return identity.ComponentID{}, err
	}
	return cid, nil
}

// ToLegacyIDString returns the id token legacy code keys on.
func (c *IdentityConverter) ToLegacyIDString(cid identity.ComponentID) string {
	return cid.ID()
}

// CreateAdam creates a parentless legacy identity.
func (c *IdentityConverter) CreateAdam(reason string, env any) (any, error) {
	envValue, err := c.env.contract.receiver(c.issues, "IdentityConverter", "CreateAdam", env)
	if err != nil {
		return nil, err
	}
	obj, err := c.contract.construct("IdentityConverter", "adam", reflect.ValueOf(reason), envValue)
	if err != nil {
		c.issues.ReportReflectionError(c.contract.TypeName+".adam", err)
		return nil, err
	}
	return obj.Interface(), nil
}

// CreateChild creates a legacy identity descending from parent.
func (c *IdentityConverter) CreateChild(reason string, env, parent any) (any, error) {
	envValue, err := c.env.contract.receiver(c.issues, "IdentityConverter", "CreateChild", env)
	if err != nil {
		return nil, err
	}
	parentValue, err := c.contract.receiver(c.issues, "IdentityConverter", "CreateChild", parent)
	if err != nil {
		return nil, err
	}
	obj, err := c.contract.construct("IdentityConverter", "child", reflect.ValueOf(reason), envValue, parentValue)
	if err != nil {
		c.issues.ReportReflectionError(c.contract.TypeName+".child", err)
		return nil, err
	}
	return obj.Interface(), nil
}

// Extract reads every identity field into a map keyed id, reason, lineage,
// environmentContext and isAdam.
func (c *IdentityConverter) Extract(legacyID any) (map[string]any, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "Extract", legacyID)
	if err != nil {
		return nil, err
	}
	fields := []struct{ key, method string }{
		{"id", "UniqueID"},
		{"reason", "Reason"},
		{"lineage", "Lineage"},
		{"environmentContext", "EnvironmentContext"},
		{"isAdam", "IsAdam"},
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := callValue[any](c.contract, "IdentityConverter", f.method, recv)
		if err != nil {
			return nil, err
		}
		out[f.key] = v
	}
	return out, nil
}

// AddToLineage appends entry to the identity's lineage.
func (c *IdentityConverter) AddToLineage(legacyID any, entry string) error {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "AddToLineage", legacyID)
	if err != nil {
		return err
	}
	_, err = c.contract.call("IdentityConverter", "AddToLineage", recv, reflect.ValueOf(entry))
	return err
}

// Lineage returns the identity's lineage.
func (c *IdentityConverter) Lineage(legacyID any) ([]string, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "Lineage", legacyID)
	if err != nil {
		return nil, err
	}
	return callValue[[]string](c.contract, "IdentityConverter", "Lineage", recv)
}

// ID returns the identity's unique id.
func (c *IdentityConverter) ID(legacyID any) (string, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "ID", legacyID)
	if err != nil {
		return "", err
	}
	return c.stringField(recv, "UniqueID")
}

// Reason returns the reason the identity was created for.
func (c *IdentityConverter) Reason(legacyID any) (string, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "Reason", legacyID)
	if err != nil {
		return "", err
	}
	return c.stringField(recv, "Reason")
}

// EnvironmentContext returns the identity's environment context.
func (c *IdentityConverter) EnvironmentContext(legacyID any) (map[string]string, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "EnvironmentContext", legacyID)
	if err != nil {
		return nil, err
	}
	return callValue[map[string]string](c.contract, "IdentityConverter", "EnvironmentContext", recv)
}

// AddEnvironmentContext sets key to value in the identity's environment context.
func (c *IdentityConverter) AddEnvironmentContext(legacyID any, key, value string) error {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "AddEnvironmentContext", legacyID)
	if err != nil {
		return err
	}
	_, err = c.contract.call("IdentityConverter", "AddEnvironmentContext", recv,
		reflect.ValueOf(key), reflect.ValueOf(value))
	return err
}

// IsAdam reports whether the identity has no parent.
func (c *IdentityConverter) IsAdam(legacyID any) (bool, error) {
	recv, err := c.contract.receiver(c.issues, "IdentityConverter", "IsAdam", legacyID)
	if err != nil {
		return false, err
	}
	return callValue[bool](c.contract, "IdentityConverter", "IsAdam", recv)
}

func (c *IdentityConverter) stringField(recv reflect.Value, method string) (string, error) {
	return callValue[string](c.contract, "IdentityConverter", method, recv)
}
