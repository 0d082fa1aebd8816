package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/hypotheek/pkg/constants"
)

// InvalidInputError reports a calculation input that was rejected before
// any computation took place.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// NonNegative rejects negative and non-finite values.
func NonNegative(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &InvalidInputError{Field: field, Value: value, Reason: "must be a finite number"}
	}
	if value < 0 {
		return &InvalidInputError{Field: field, Value: value, Reason: "must not be negative"}
	}
	return nil
}

// Positive rejects zero, negative and non-finite values.
func Positive(field string, value float64) error {
	if err := NonNegative(field, value); err != nil {
		return err
	}
	if value == 0 {
		return &InvalidInputError{Field: field, Value: value, Reason: "must be greater than zero"}
	}
	return nil
}

// Percentage rejects values outside [0, 100].
func Percentage(field string, value float64) error {
	if err := NonNegative(field, value); err != nil {
		return err
	}
	if value > constants.MaxPercentage {
		return &InvalidInputError{Field: field, Value: value,
			Reason: fmt.Sprintf("must not exceed %.0f", constants.MaxPercentage)}
	}
	return nil
}

// First returns the first non-nil error, so callers can validate every
// field in one expression.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
