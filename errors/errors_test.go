package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.class.String())
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"type mismatch", ErrTypeMismatch, true},
		{"contract violation", ErrContractViolation, true},
		{"invalid transition", ErrInvalidTransition, true},
		{"wrapped type mismatch", fmt.Errorf("outer: %w", ErrTypeMismatch), true},
		{"invocation failed", ErrInvocationFailed, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("x")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("x")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsInvalid(test.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invocation failed", ErrInvocationFailed, true},
		{"initialization failed", ErrComponentInitialization, true},
		{"invalid config", ErrInvalidConfig, true},
		{"panic in message", fmt.Errorf("recovered panic: boom"), true},
		{"type mismatch", ErrTypeMismatch, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("x")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsFatal(test.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(fmt.Errorf("operation timeout occurred")))
	assert.True(t, IsTransient(&ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("x")}))
	assert.False(t, IsTransient(ErrTypeMismatch))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorTransient, Classify(nil))
	assert.Equal(t, ErrorInvalid, Classify(ErrTypeMismatch))
	assert.Equal(t, ErrorFatal, Classify(ErrInvocationFailed))
	assert.Equal(t, ErrorTransient, Classify(fmt.Errorf("service busy")))
	assert.Equal(t, ErrorFatal, Classify(fmt.Errorf("something odd")))
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, Wrap(nil, "C", "M", "a"))

	err := Wrap(base, "Adapter", "Wrap", "identity extraction")
	require.Error(t, err)
	assert.Equal(t, "Adapter.Wrap: identity extraction failed: boom", err.Error())
	assert.True(t, errors.Is(err, base))
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		class ErrorClass
	}{
		{"transient", WrapTransient, ErrorTransient},
		{"invalid", WrapInvalid, ErrorInvalid},
		{"fatal", WrapFatal, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Nil(t, test.wrap(nil, "C", "M", "a"))

			err := test.wrap(base, "Comp", "Op", "act")
			var ce *ClassifiedError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, test.class, ce.Class)
			assert.Equal(t, "Comp", ce.Component)
			assert.Equal(t, "Op", ce.Operation)
			assert.True(t, errors.Is(err, base))
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	err := TypeMismatch("TubeAdapter", "Wrap", "*legacy.Tube", "string")

	assert.True(t, IsTypeMismatch(err))
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "expected *legacy.Tube, got string")

	err = TypeMismatch("TubeAdapter", "Wrap", "*legacy.Tube", "")
	assert.Contains(t, err.Error(), "got nil")
}

func TestContractViolation(t *testing.T) {
	err := ContractViolation("IdentityConverter", "fixtures.Identity", "IsAdam", "")

	assert.True(t, IsContractViolation(err))
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "IsAdam")
	assert.Contains(t, err.Error(), "fixtures.Identity")

	err = ContractViolation("IdentityConverter", "fixtures.Identity", "Reason", "want func() string")
	assert.True(t, strings.Contains(err.Error(), "want func() string"))
}

func TestInvocationAndInitializationFailures(t *testing.T) {
	cause := errors.New("constructor exploded")

	inv := InvocationFailed("ComponentAdapter", "State", "fixtures.Tube.State", cause)
	assert.True(t, IsFatal(inv))
	assert.True(t, errors.Is(inv, ErrInvocationFailed))
	assert.True(t, errors.Is(inv, cause))

	init := InitializationFailed("ComponentAdapter", "Create", "legacy component", cause)
	assert.True(t, IsInitializationFailure(init))
	assert.True(t, IsFatal(init))
	assert.True(t, errors.Is(init, cause))
}
