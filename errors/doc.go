// Package errors provides standardized error handling for the component translation layer.
//
// # Overview
//
// The errors package implements a three-class error classification system: Transient
// (temporary, retryable), Invalid (bad input, the illegal-argument family) and Fatal
// (unrecoverable, the illegal-state family).
//
// Conversions surface hard failures through a small set of sentinels so callers have
// a uniform failure surface regardless of which legacy type is involved:
//
//   - ErrTypeMismatch: a conversion received an object of the wrong runtime type.
//     Built with TypeMismatch, always classified Invalid, carries both type names.
//   - ErrContractViolation: a required method is missing on a type resolved by the
//     reflective engine. Raised when the converter is constructed, never lazily.
//   - ErrInvocationFailed: a call into a legacy object failed at runtime. Fatal.
//   - ErrComponentInitialization: a construction step failed. Fatal, wraps the cause.
//
// Advisory anomalies (suspicious transitions, lossy state mappings) are never errors;
// they are recorded through the feedback package and execution continues.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The generic Wrap() function preserves the original error's classification:
//
//	errors.Wrap(err, "Component", "Method", "action")
//
// # Checking Errors
//
//	port, err := adapter.WrapAny(obj)
//	if errors.IsTypeMismatch(err) {
//	    // caller passed the wrong object
//	}
//	if errors.IsFatal(err) {
//	    // the legacy object misbehaved
//	}
package errors
