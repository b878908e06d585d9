package reflective

import (
	"maps"
	"reflect"
	"slices"

	"github.com/c360/s8rbridge/feedback"
)

func environmentRole() role {
	return role{
		key: "environment",
		methods: []signature{
			sig("Parameter", args(stringType), stringType),
			sig("SetParameter", args(stringType, stringType)),
			sig("ParameterKeys", nil, stringSliceType),
		},
	}
}

// EnvironmentConverter creates and reads legacy environments of a type known
// only by its registered name.
type EnvironmentConverter struct {
	contract *Contract
	issues   *feedback.Logger
}

// NewEnvironmentConverter resolves typeName and verifies its environment
// contract. A missing or mis-typed method fails here, naming the method.
func NewEnvironmentConverter(reg *TypeRegistry, typeName string, issues *feedback.Logger) (*EnvironmentConverter, error) {
	issues = privateIssues(issues, "reflective.environment")
	contract, err := reg.resolve(environmentRole(), typeName)
	if err != nil {
		issues.ReportReflectionError(typeName, err)
		return nil, err
	}
	return &EnvironmentConverter{contract: contract, issues: issues}, nil
}

// Contract returns the verified contract.
func (c *EnvironmentConverter) Contract() *Contract { return c.contract }

// Type returns the pointer type of environments this converter handles.
func (c *EnvironmentConverter) Type() reflect.Type { return c.contract.Type }

// TypeName returns the registered-style name of env's dynamic type.
func (c *EnvironmentConverter) TypeName(env any) string { return NameOf(env) }

// Create allocates a legacy environment and sets every parameter on it.
func (c *EnvironmentConverter) Create(params map[string]string) (any, error) {
	env := c.contract.New()
	for _, k := range slices.Sorted(maps.Keys(params)) {
		if _, err := c.contract.call("EnvironmentConverter", "SetParameter", env,
			reflect.ValueOf(k), reflect.ValueOf(params[k])); err != nil {
			c.issues.ReportReflectionError(c.contract.TypeName+".SetParameter", err)
			return nil, err
		}
	}
	return env.Interface(), nil
}

// Parameters reads every parameter of env.
func (c *EnvironmentConverter) Parameters(env any) (map[string]string, error) {
	recv, err := c.contract.receiver(c.issues, "EnvironmentConverter", "Parameters", env)
	if err != nil {
		return nil, err
	}
	keys, err := callValue[[]string](c.contract, "EnvironmentConverter", "ParameterKeys", recv)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := callValue[string](c.contract, "EnvironmentConverter", "Parameter", recv, reflect.ValueOf(k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Accepts reports whether env is an instance of the handled type.
func (c *EnvironmentConverter) Accepts(env any) bool { return c.contract.Accepts(env) }
