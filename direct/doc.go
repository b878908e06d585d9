// Package direct holds hand-written converters for the legacy tube family.
//
// Unlike the reflective package, everything here is typed against the legacy
// package, so the only argument errors possible are nil values, which are
// rejected as type mismatches. TubeComponent is the port view of a tube; it
// reads state, identity and lineage through the tube on every call, so
// changes made by legacy code are visible immediately.
package direct
