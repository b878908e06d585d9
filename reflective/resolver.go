package reflective

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/port"
)

// FamilySpec names the registered types that make up one legacy family.
type FamilySpec struct {
	Environment string `json:"environment" yaml:"environment"`
	Identity    string `json:"identity" yaml:"identity"`
	Component   string `json:"component" yaml:"component"`
}

// Validate checks that every type name is set.
func (s FamilySpec) Validate() error {
	for field, v := range map[string]string{
		"environment": s.Environment, "identity": s.Identity, "component": s.Component,
	} {
		if v == "" {
			return errors.WrapInvalid(
				fmt.Errorf("%w: %s type name is empty", errors.ErrMissingConfig, field),
				"FamilySpec", "Validate", "type name check")
		}
	}
	return nil
}

// Family is the set of converters built for one FamilySpec.
type Family struct {
	Name        string
	Environment *EnvironmentConverter
	Identity    *IdentityConverter
	Component   *ComponentAdapter
}

// Resolver hands out converter families by name, building each family the
// first time it is asked for.
type Resolver struct {
	reg    *TypeRegistry
	issues *feedback.Logger

	mu       sync.Mutex
	specs    map[string]FamilySpec
	families map[string]*Family
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *TypeRegistry, issues *feedback.Logger) *Resolver {
	return &Resolver{
		reg:      reg,
		issues:   privateIssues(issues, "reflective"),
		specs:    make(map[string]FamilySpec),
		families: make(map[string]*Family),
	}
}

// Registry returns the type registry families resolve against.
func (r *Resolver) Registry() *TypeRegistry { return r.reg }

// Register adds a family spec under name. Registering the same spec twice is
// allowed; a different spec under an existing name is not.
func (r *Resolver) Register(name string, spec FamilySpec) error {
	if name == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Resolver", "Register", "family name validation")
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.specs[name]; ok && existing != spec {
		return errors.WrapInvalid(
			fmt.Errorf("%w: family %s", errors.ErrAlreadyExists, name),
			"Resolver", "Register", "duplicate family check")
	}
	r.specs[name] = spec
	return nil
}

// Families returns the registered family names in sorted order.
func (r *Resolver) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.specs))
}

// Family returns the converters for name, building and verifying them on
// first use. Failed builds are not memoized.
func (r *Resolver) Family(name string) (*Family, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.families[name]; ok {
		return f, nil
	}
	spec, ok := r.specs[name]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: family %s", errors.ErrNotFound, name),
			"Resolver", "Family", "family lookup")
	}

	issues := r.issues.Named("reflective." + name)
	env, err := NewEnvironmentConverter(r.reg, spec.Environment, issues)
	if err != nil {
		return nil, errors.Wrap(err, "Resolver", "Family", "environment converter for "+name)
	}
	ids, err := NewIdentityConverter(r.reg, spec.Identity, env, issues)
	if err != nil {
		return nil, errors.Wrap(err, "Resolver", "Family", "identity converter for "+name)
	}
	comps, err := NewComponentAdapter(r.reg, spec.Component, ids, env, issues)
	if err != nil {
		return nil, errors.Wrap(err, "Resolver", "Family", "component adapter for "+name)
	}

	f := &Family{Name: name, Environment: env, Identity: ids, Component: comps}
	r.families[name] = f
	r.reg.Logger().Info("Resolved converter family", "family", name,
		"environment", spec.Environment, "identity", spec.Identity, "component", spec.Component)
	return f, nil
}

// FamilyFor returns the first family, by name order, whose component type
// matches obj.
func (r *Resolver) FamilyFor(obj any) (*Family, bool) {
	for _, name := range r.Families() {
		f, err := r.Family(name)
		if err != nil {
			continue
		}
		if f.Component.Accepts(obj) {
			return f, true
		}
	}
	return nil, false
}

// Wrap finds the family matching obj's type and wraps obj as a port. An
// object no family accepts is a type mismatch.
func (r *Resolver) Wrap(obj any) (port.ComponentPort, error) {
	if f, ok := r.FamilyFor(obj); ok {
		return f.Component.Wrap(obj)
	}
	actual := NameOf(obj)
	r.issues.ReportTypeMismatch("component", actual, "registered legacy component")
	return nil, errors.TypeMismatch("Resolver", "Wrap", "registered legacy component", actual)
}
