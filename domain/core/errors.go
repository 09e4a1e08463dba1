package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Model errors
	ErrNotFitted        = errors.New("model is not fitted")
	ErrUnsupportedModel = errors.New("model has no predict or predict-probability capability")
	ErrPredictionShape  = errors.New("model returned predictions of unexpected shape")

	// Validation errors
	ErrInvalidWeights     = errors.New("invalid sample weights")
	ErrInvalidFeatureSpec = errors.New("invalid feature specification")
	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidTarget      = errors.New("invalid target values")

	// Grid errors
	ErrIncomparable = errors.New("values are not uniformly comparable")

	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)
)

// Error constructors with context
func NewWeightsError(reason string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidWeights, fmt.Sprintf(reason, args...))
}

func NewFeatureSpecError(reason string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFeatureSpec, fmt.Sprintf(reason, args...))
}

func NewOptionError(option string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidOption, option, reason)
}

func NewPredictionShapeError(expected, actual int) error {
	return fmt.Errorf("%w: expected %d rows, got %d", ErrPredictionShape, expected, actual)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsModelError(err error) bool {
	return errors.Is(err, ErrNotFitted) ||
		errors.Is(err, ErrUnsupportedModel) ||
		errors.Is(err, ErrPredictionShape)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidWeights) ||
		errors.Is(err, ErrInvalidFeatureSpec) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrInvalidTarget)
}
