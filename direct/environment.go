package direct

import (
	"maps"

	"github.com/c360/s8rbridge/component"
	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/legacy"
)

const environmentType = "*legacy.Environment"

// EnvironmentConverter moves parameters between legacy and new environments.
type EnvironmentConverter struct {
	issues *feedback.Logger
}

// NewEnvironmentConverter returns a converter reporting into issues.
func NewEnvironmentConverter(issues *feedback.Logger) *EnvironmentConverter {
	return &EnvironmentConverter{issues: named(issues, "direct.environment")}
}

// Create returns a legacy environment holding params.
func (c *EnvironmentConverter) Create(params map[string]string) *legacy.Environment {
	return legacy.NewEnvironment(params)
}

// CreateNamed returns a legacy environment holding params plus name.
func (c *EnvironmentConverter) CreateNamed(name string, params map[string]string) *legacy.Environment {
	all := make(map[string]string, len(params)+1)
	maps.Copy(all, params)
	all["name"] = name
	return legacy.NewEnvironment(all)
}

// Parameters returns a copy of env's parameters.
func (c *EnvironmentConverter) Parameters(env *legacy.Environment) (map[string]string, error) {
	if env == nil {
		c.issues.ReportTypeMismatch("Parameters", "nil", environmentType)
		return nil, errors.TypeMismatch("EnvironmentConverter", "Parameters", environmentType, "nil")
	}
	return env.Parameters(), nil
}

// ToLegacy copies a new environment into a legacy one. A nil environment
// becomes an empty one and is reported as a missing property.
func (c *EnvironmentConverter) ToLegacy(env *component.Environment) *legacy.Environment {
	if env == nil {
		c.issues.ReportPropertyNotFound("environment")
		return legacy.NewEnvironment(nil)
	}
	return legacy.NewEnvironment(env.Parameters())
}

// FromLegacy copies a legacy environment into a new one. A nil environment
// becomes an empty one and is reported as a missing property.
func (c *EnvironmentConverter) FromLegacy(env *legacy.Environment) *component.Environment {
	if env == nil {
		c.issues.ReportPropertyNotFound("environment")
		return component.NewEnvironment(nil)
	}
	return component.NewEnvironment(env.Parameters())
}
