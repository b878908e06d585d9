// Package adapter connects the concrete component families to the port
// contracts and to each other.
//
// Two directions are covered:
//
//   - Port-from-concrete: NewComponentPort, NewCompositePort and
//     NewMachinePort present new-style objects through the port package.
//     Composite and machine ports have their own identity and a collapsed
//     lifecycle of ready, active and terminated.
//   - Concrete-from-legacy: CompositeWrapper and MachineWrapper satisfy the
//     component.Composite and component.Machine contracts over legacy
//     objects. Mutations go to both sides; reads prefer a per-wrapper cache
//     filled lazily from the legacy object.
//
// Wrapper caches belong to the wrapper and disappear with it. Missing legacy
// state is replaced by empty defaults and reported through the feedback
// logger instead of failing the call.
//
// Example:
//
//	w, err := adapter.NewMachineWrapper(legacyMachine, adapter.WithIssues(issues))
//	if err != nil {
//		return err
//	}
//	p := adapter.NewMachinePort(w)
//	p.Start()
package adapter
