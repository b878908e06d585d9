// Package component is the new component family: Component, Composite and
// Machine.
//
// A Component owns an identity.ComponentID, a lifecycle.State guarded by the
// transition table in package lifecycle, an activity log, recorded domain
// events and a property bag. Invalid transitions return an error classified
// as invalid; ForceState exists for adapters that seed state from another
// family and must not walk the transition graph.
//
// Composite and Machine are interfaces so that wrappers over the legacy
// family can stand in wherever native objects are expected.
// StandardComposite and StandardMachine are the native implementations.
//
// Composite connections are recorded immediately even when an endpoint has
// not been added yet; ConnectionsFrom only reports connections whose
// endpoints are both present at query time.
package component
