// Package legacy is the older "tube" component family the translation layer
// migrates from.
//
// A Tube carries an Identity, an Environment and two lifecycle signals that
// legacy code updates independently: the coarse lifecycle.Status and the
// fine-grained lifecycle.Phase. Composites group tubes by name and record
// connections that may reference tubes added later. Machines group
// composites and keep a free-form state bag.
//
// Everything here is safe for concurrent use.
package legacy
