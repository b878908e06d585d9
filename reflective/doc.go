// Package reflective converts legacy objects whose types are not known at
// compile time.
//
// Types are registered by value in a TypeRegistry under a stable "pkg.Type"
// name, together with any named constructor functions a role needs. A
// converter is then built from a type name:
//
//	reg, _ := reflective.NewTypeRegistry()
//	envName, _ := reg.Register((*legacy.Environment)(nil))
//	idName, _ := reg.Register((*legacy.Identity)(nil))
//	_ = reg.RegisterConstructor(idName, "adam", legacy.NewAdamIdentity)
//	_ = reg.RegisterConstructor(idName, "child", legacy.NewChildIdentity)
//
//	envs, err := reflective.NewEnvironmentConverter(reg, envName, issues)
//	ids, err := reflective.NewIdentityConverter(reg, idName, envs, issues)
//
// Every method and constructor a converter will call is verified against its
// exact signature when the converter is built, so a missing or mis-typed
// method fails immediately with errors.ErrContractViolation naming it.
// Verified contracts are cached per registry.
//
// At call time, an argument of the wrong type fails with
// errors.ErrTypeMismatch, a panic inside a legacy method with
// errors.ErrInvocationFailed, and a failed construction with
// errors.ErrComponentInitialization. Each of these is also reported to the
// feedback.Logger the converter was given.
//
// A Resolver groups environment, identity and component type names into named
// families and builds each family's converters once.
package reflective
