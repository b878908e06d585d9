// Package errors provides standardized error handling patterns for the translation layer.
// It includes error classification, standard error variables, and helper functions
// for consistent error wrapping and classification across adapters and converters.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input (illegal-argument)
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors (illegal-state)
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Conversion errors
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrContractViolation       = errors.New("reflection contract violation")
	ErrInvocationFailed        = errors.New("invocation failed")
	ErrComponentInitialization = errors.New("component initialization failed")

	// Lifecycle errors
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrTerminated        = errors.New("component terminated")
	ErrNotActive         = errors.New("component not active")
	ErrNotReady          = errors.New("component not ready")

	// Lookup errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnknownType   = errors.New("unknown type")

	// Input and configuration errors
	ErrInvalidData    = errors.New("invalid data format")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrConfigNotFound = errors.New("configuration not found")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and may be retried
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "temporary", "unavailable", "busy", "retry"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsFatal checks if an error is fatal and should stop the conversion
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	if errors.Is(err, ErrInvocationFailed) ||
		errors.Is(err, ErrComponentInitialization) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"fatal", "panic", "invalid config", "missing config"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrInvalidData) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrContractViolation) ||
		errors.Is(err, ErrInvalidTransition)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient
	}

	if IsInvalid(err) {
		return ErrorInvalid
	}
	if IsFatal(err) {
		return ErrorFatal
	}
	if IsTransient(err) {
		return ErrorTransient
	}

	return ErrorFatal
}

// newClassified creates a new classified error.
// Use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// TypeMismatch builds the illegal-argument error raised when a conversion receives
// an object that is not an instance of the expected type.
func TypeMismatch(component, method, expected, actual string) error {
	if actual == "" {
		actual = "nil"
	}
	return WrapInvalid(
		fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, expected, actual),
		component, method, "argument type check")
}

// ContractViolation builds the error raised when a required method is missing or
// has the wrong signature on a type resolved by the reflective engine.
func ContractViolation(component, typeName, method, detail string) error {
	msg := fmt.Errorf("%w: %s does not provide %s", ErrContractViolation, typeName, method)
	if detail != "" {
		msg = fmt.Errorf("%w: %s does not provide %s (%s)", ErrContractViolation, typeName, method, detail)
	}
	return WrapInvalid(msg, component, "resolve", "contract lookup")
}

// InvocationFailed builds the illegal-state error raised when a call into a legacy
// object fails at runtime.
func InvocationFailed(component, method, target string, cause error) error {
	return WrapFatal(
		fmt.Errorf("%w: %s: %w", ErrInvocationFailed, target, cause),
		component, method, "legacy invocation")
}

// InitializationFailed builds the component initialization error carrying the cause.
func InitializationFailed(component, method, what string, cause error) error {
	return WrapFatal(
		fmt.Errorf("%w: %s: %w", ErrComponentInitialization, what, cause),
		component, method, "component construction")
}

// IsTypeMismatch reports whether err is a type-mismatch failure.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// IsContractViolation reports whether err is a reflection-contract failure.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsInitializationFailure reports whether err is a wrapped construction failure.
func IsInitializationFailure(err error) bool {
	return errors.Is(err, ErrComponentInitialization)
}

// Is is a convenience re-export of the standard library errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience re-export of the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New is a convenience re-export of the standard library errors.New.
func New(text string) error {
	return errors.New(text)
}
