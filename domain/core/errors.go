package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound              = errors.New("resource not found")
	ErrRunNotFound           = fmt.Errorf("%w: run", ErrNotFound)
	ErrMetricNotFound        = fmt.Errorf("%w: metric", ErrNotFound)
	ErrSpecificationNotFound = fmt.Errorf("%w: specification", ErrNotFound)

	// Input errors: the caller broke a contract. Always surfaced, never recovered.
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptySample      = fmt.Errorf("%w: empty sample", ErrInvalidInput)
	ErrTooFewGroups     = fmt.Errorf("%w: fewer than 2 distinct groups", ErrInvalidInput)
	ErrInvalidAlpha     = fmt.Errorf("%w: alpha must be strictly between 0 and 1", ErrInvalidInput)
	ErrNonRectangular   = fmt.Errorf("%w: measurement cube is not rectangular", ErrInvalidInput)
	ErrInvalidSpec      = fmt.Errorf("%w: specification limits", ErrInvalidInput)
	ErrColumnLength     = fmt.Errorf("%w: column length mismatch", ErrInvalidInput)
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Computation-undefined errors: recovered per item as an absent result.
	ErrComputationUndefined = errors.New("computation undefined")
	ErrZeroVariance         = fmt.Errorf("%w: zero standard deviation", ErrComputationUndefined)
	ErrTooFewObservations   = fmt.Errorf("%w: fewer than 2 valid observations", ErrComputationUndefined)
	ErrNoSpecification      = fmt.Errorf("%w: no specification registered", ErrComputationUndefined)

	// Statistical routine failures: converted into error-carrying results.
	ErrStatisticalFailure = errors.New("statistical routine failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewUndefinedError(metric string, cause error) error {
	return fmt.Errorf("metric %s: %w", metric, cause)
}

func NewStatisticalError(test string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrStatisticalFailure, test, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsUndefined(err error) bool {
	return errors.Is(err, ErrComputationUndefined)
}

func IsStatisticalFailure(err error) bool {
	return errors.Is(err, ErrStatisticalFailure)
}
