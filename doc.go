// Package s8rbridge translates between two component families that model the
// same concepts (identity, lifecycle, environment, composition) with
// incompatible types. Legacy code built on tubes, composites and machines
// keeps working while new code moves to the component family, and every
// mismatch found on the way is reported rather than failing the caller.
//
// # Layers
//
//	┌─────────────────────────────────────┐
//	│   migrate.Factory                   │  single entry point
//	└─────────────────────────────────────┘
//	           ↓ builds
//	┌─────────────────────────────────────┐
//	│   adapter / direct / reflective     │  wrappers and converters
//	└─────────────────────────────────────┘
//	           ↓ use
//	┌─────────────────────────────────────┐
//	│   translate / lifecycle / identity  │  value mappings
//	└─────────────────────────────────────┘
//	           ↓ report to
//	┌─────────────────────────────────────┐
//	│   feedback                          │  issue collector, reports
//	└─────────────────────────────────────┘
//
// Packages port, component and legacy define the two families and the
// family-independent contracts. The config, errors and metric packages carry
// configuration, classified errors and prometheus instrumentation for all of
// the above.
//
// # Command
//
// cmd/s8rbridge validates configuration, prints the lifecycle mapping table
// and runs a sample migration:
//
//	s8rbridge --config=s8r.yaml --demo --format=yaml
package s8rbridge
