package reflective

import (
	"fmt"
	"log/slog"
	"maps"
	"path"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/metric"
	"github.com/c360/s8rbridge/pkg/cache"
)

// TypeRegistry maps stable type names to Go types and their named
// constructors. It stands in for a class loader: converters find legacy
// types by name and never import them.
//
// A registry also owns the cache of verified contracts, so each type's
// method set is checked once no matter how many converters use it.
type TypeRegistry struct {
	mu           sync.RWMutex
	types        map[string]reflect.Type
	constructors map[string]map[string]reflect.Value

	contracts cache.Cache[*Contract]
	logger    *slog.Logger
}

// RegistryOption configures a TypeRegistry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger      *slog.Logger
	cacheConfig cache.Config
	registrar   metric.MetricsRegistrar
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) { o.logger = logger }
}

// WithContractCache sets how verified contracts are cached.
func WithContractCache(cfg cache.Config) RegistryOption {
	return func(o *registryOptions) { o.cacheConfig = cfg }
}

// WithMetrics exports contract cache statistics through registrar.
func WithMetrics(registrar metric.MetricsRegistrar) RegistryOption {
	return func(o *registryOptions) { o.registrar = registrar }
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry(opts ...RegistryOption) (*TypeRegistry, error) {
	o := registryOptions{cacheConfig: cache.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	contracts, err := cache.NewFromConfig(o.cacheConfig,
		cache.WithMetrics[*Contract](o.registrar, "reflective_contracts"))
	if err != nil {
		return nil, errors.Wrap(err, "TypeRegistry", "NewTypeRegistry", "contract cache creation")
	}

	return &TypeRegistry{
		types:        make(map[string]reflect.Type),
		constructors: make(map[string]map[string]reflect.Value),
		contracts:    contracts,
		logger:       o.logger.With("component", "reflective"),
	}, nil
}

// TypeName returns the stable "pkg.Type" name for t. Pointers are unwrapped
// and generic instantiation parameters dropped. Unnamed types yield "".
func TypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return ""
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if p := t.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	return name
}

// NameOf returns TypeName of v's dynamic type, or "nil".
func NameOf(v any) string {
	if v == nil {
		return "nil"
	}
	if name := TypeName(reflect.TypeOf(v)); name != "" {
		return name
	}
	return reflect.TypeOf(v).String()
}

// Register adds the named type of sample and returns its name. sample may be
// a value or a pointer, typed nil included: Register((*legacy.Tube)(nil)).
func (r *TypeRegistry) Register(sample any) (string, error) {
	t := reflect.TypeOf(sample)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := TypeName(t)
	if name == "" {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %v is not a named type", errors.ErrInvalidData, reflect.TypeOf(sample)),
			"TypeRegistry", "Register", "type name validation")
	}
	if t.Kind() != reflect.Struct {
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %s is a %s, want struct", errors.ErrInvalidData, name, t.Kind()),
			"TypeRegistry", "Register", "type kind validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[name]; ok {
		if existing == t {
			return name, nil
		}
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: %s is registered for %s", errors.ErrAlreadyExists, name, existing.PkgPath()),
			"TypeRegistry", "Register", "duplicate type check")
	}
	r.types[name] = t
	r.logger.Debug("Registered type", "type", name)
	return name, nil
}

// RegisterConstructor attaches a named constructor function to a registered
// type. fn must be a func; its signature is checked when a converter
// resolves it.
func (r *TypeRegistry) RegisterConstructor(typeName, ctorName string, fn any) error {
	if ctorName == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "TypeRegistry", "RegisterConstructor",
			"constructor name validation")
	}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return errors.WrapInvalid(
			fmt.Errorf("%w: constructor %s must be a func, got %s", errors.ErrInvalidConfig, ctorName, NameOf(fn)),
			"TypeRegistry", "RegisterConstructor", "constructor validation")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[typeName]; !ok {
		return errors.WrapInvalid(
			fmt.Errorf("%w: type %s", errors.ErrNotFound, typeName),
			"TypeRegistry", "RegisterConstructor", "type lookup")
	}
	ctors := r.constructors[typeName]
	if ctors == nil {
		ctors = make(map[string]reflect.Value)
		r.constructors[typeName] = ctors
	}
	if _, exists := ctors[ctorName]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("%w: constructor %s.%s", errors.ErrAlreadyExists, typeName, ctorName),
			"TypeRegistry", "RegisterConstructor", "duplicate constructor check")
	}
	ctors[ctorName] = v
	return nil
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Constructor returns the constructor registered for typeName under ctorName.
func (r *TypeRegistry) Constructor(typeName, ctorName string) (reflect.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.constructors[typeName][ctorName]
	return v, ok
}

// Names returns every registered type name in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.types))
}

// ContractStats returns hit/miss statistics of the contract cache.
func (r *TypeRegistry) ContractStats() *cache.Statistics {
	return r.contracts.Stats()
}

// Logger returns the registry's structured logger.
func (r *TypeRegistry) Logger() *slog.Logger { return r.logger }
