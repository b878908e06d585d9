package reflective

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/pkg/cache"
)

// self stands for the type being verified in signatures that mention it,
// such as a child constructor taking its parent.
type self struct{}

var selfType = reflect.TypeOf((*self)(nil))

var (
	stringType      = reflect.TypeOf("")
	boolType        = reflect.TypeOf(false)
	stringSliceType = reflect.TypeOf([]string(nil))
	stringMapType   = reflect.TypeOf(map[string]string(nil))
)

type signature struct {
	name string
	in   []reflect.Type
	out  []reflect.Type
}

func sig(name string, in []reflect.Type, out ...reflect.Type) signature {
	return signature{name: name, in: in, out: out}
}

func args(types ...reflect.Type) []reflect.Type { return types }

// role is the set of methods and constructors one kind of converter needs.
type role struct {
	key          string
	methods      []signature
	constructors []signature
}

// Contract is the verified method set of a registered type for one role.
// Every method and constructor it lists has been checked against the exact
// signature the converter calls it with.
type Contract struct {
	TypeName string
	// Type is the pointer type instances are handled as.
	Type reflect.Type

	methods      map[string]reflect.Method
	constructors map[string]reflect.Value
}

// Methods returns the verified method names in sorted order.
func (c *Contract) Methods() []string {
	return slices.Sorted(maps.Keys(c.methods))
}

// Constructors returns the verified constructor names in sorted order.
func (c *Contract) Constructors() []string {
	return slices.Sorted(maps.Keys(c.constructors))
}

// Accepts reports whether v is a non-nil instance of the contract's type.
func (c *Contract) Accepts(v any) bool {
	if v == nil || reflect.TypeOf(v) != c.Type {
		return false
	}
	return !reflect.ValueOf(v).IsNil()
}

// New allocates a zero instance of the contract's type.
func (c *Contract) New() reflect.Value {
	return reflect.New(c.Type.Elem())
}

// resolve returns the verified contract of typeName for role, verifying it on
// first use.
func (r *TypeRegistry) resolve(ro role, typeName string) (*Contract, error) {
	return cache.GetOrLoad(r.contracts, ro.key+"|"+typeName, func() (*Contract, error) {
		return r.verify(ro, typeName)
	})
}

func (r *TypeRegistry) verify(ro role, typeName string) (*Contract, error) {
	t, ok := r.Lookup(typeName)
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: type %s is not registered", errors.ErrNotFound, typeName),
			"TypeRegistry", "resolve", "type lookup")
	}
	pt := reflect.PointerTo(t)

	c := &Contract{
		TypeName:     typeName,
		Type:         pt,
		methods:      make(map[string]reflect.Method, len(ro.methods)),
		constructors: make(map[string]reflect.Value, len(ro.constructors)),
	}

	for _, want := range ro.methods {
		m, ok := pt.MethodByName(want.name)
		if !ok {
			return nil, errors.ContractViolation("reflective", typeName, want.name, "method not found")
		}
		// Method types carry the receiver as their first input.
		if have, ok := matches(m.Type, 1, want, pt); !ok {
			return nil, errors.ContractViolation("reflective", typeName, want.name,
				fmt.Sprintf("want %s, have %s", describe(want, pt), have))
		}
		c.methods[want.name] = m
	}

	for _, want := range ro.constructors {
		fn, ok := r.Constructor(typeName, want.name)
		if !ok {
			return nil, errors.ContractViolation("reflective", typeName, want.name, "constructor not registered")
		}
		if have, ok := matches(fn.Type(), 0, want, pt); !ok {
			return nil, errors.ContractViolation("reflective", typeName, want.name,
				fmt.Sprintf("want %s, have %s", describe(want, pt), have))
		}
		c.constructors[want.name] = fn
	}

	r.logger.Debug("Verified contract", "type", typeName, "role", ro.key,
		"methods", len(c.methods), "constructors", len(c.constructors))
	return c, nil
}

// matches compares fn's signature, skipping the first skip inputs, with want.
// It returns fn's own description for error messages.
func matches(fn reflect.Type, skip int, want signature, pt reflect.Type) (string, bool) {
	in := make([]reflect.Type, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		in = append(in, fn.In(i))
	}
	out := make([]reflect.Type, 0, fn.NumOut())
	for i := 0; i < fn.NumOut(); i++ {
		out = append(out, fn.Out(i))
	}
	have := reflect.FuncOf(in, out, fn.IsVariadic()).String()

	if fn.IsVariadic() || !sameTypes(in, want.in, pt) || !sameTypes(out, want.out, pt) {
		return have, false
	}
	return have, true
}

func sameTypes(have, want []reflect.Type, pt reflect.Type) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range want {
		if bind(want[i], pt) != have[i] {
			return false
		}
	}
	return true
}

func bind(t, pt reflect.Type) reflect.Type {
	if t == selfType {
		return pt
	}
	return t
}

func describe(s signature, pt reflect.Type) string {
	in := make([]reflect.Type, len(s.in))
	for i, t := range s.in {
		in[i] = bind(t, pt)
	}
	out := make([]reflect.Type, len(s.out))
	for i, t := range s.out {
		out[i] = bind(t, pt)
	}
	return reflect.FuncOf(in, out, false).String()
}

// call invokes a verified method on recv. Panics surface as invocation
// failures.
func (c *Contract) call(component, method string, recv reflect.Value, in ...reflect.Value) (out []reflect.Value, err error) {
	m, ok := c.methods[method]
	if !ok {
		return nil, errors.InvocationFailed(component, method, c.TypeName,
			fmt.Errorf("%w: method not in contract", errors.ErrNotFound))
	}
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = errors.InvocationFailed(component, method, c.TypeName, fmt.Errorf("panic: %v", p))
		}
	}()
	return m.Func.Call(append([]reflect.Value{recv}, in...)), nil
}

// construct invokes a verified constructor. Panics and nil results surface
// as initialization failures.
func (c *Contract) construct(component, ctor string, in ...reflect.Value) (obj reflect.Value, err error) {
	fn, ok := c.constructors[ctor]
	if !ok {
		return reflect.Value{}, errors.InitializationFailed(component, ctor, c.TypeName,
			fmt.Errorf("%w: constructor not in contract", errors.ErrNotFound))
	}
	defer func() {
		if p := recover(); p != nil {
			obj = reflect.Value{}
			err = errors.InitializationFailed(component, ctor, c.TypeName, fmt.Errorf("panic: %v", p))
		}
	}()
	out := fn.Call(in)
	if out[0].IsNil() {
		return reflect.Value{}, errors.InitializationFailed(component, ctor, c.TypeName,
			fmt.Errorf("%w: constructor returned nil", errors.ErrInvalidData))
	}
	return out[0], nil
}

// callValue invokes a single-result method and returns its value as T.
func callValue[T any](c *Contract, component, method string, recv reflect.Value, in ...reflect.Value) (T, error) {
	var zero T
	out, err := c.call(component, method, recv, in...)
	if err != nil {
		return zero, err
	}
	v, ok := out[0].Interface().(T)
	if !ok {
		return zero, errors.InvocationFailed(component, method, c.TypeName,
			fmt.Errorf("%w: result is %s", errors.ErrInvalidData, out[0].Type()))
	}
	return v, nil
}

// receiver checks that v is an instance of the contract's type, reporting a
// type_mismatch issue when it is not.
func (c *Contract) receiver(issues *feedback.Logger, component, method string, v any) (reflect.Value, error) {
	if c.Accepts(v) {
		return reflect.ValueOf(v), nil
	}
	actual := "nil"
	if v != nil {
		actual = reflect.TypeOf(v).String()
	}
	issues.ReportTypeMismatch(method, actual, c.Type.String())
	return reflect.Value{}, errors.TypeMismatch(component, method, c.Type.String(), actual)
}

func privateIssues(issues *feedback.Logger, category string) *feedback.Logger {
	if issues != nil {
		return issues.Named(category)
	}
	return feedback.NewLogger(category, feedback.NewCollector(feedback.DefaultCollectorConfig()))
}
