package estimator

import "errors"

// invalidQuantizationError signals a label outside the closed quantization set.
type invalidQuantizationError struct{ label string }

func (e invalidQuantizationError) Error() string { return "invalid quantization: " + e.label }

// ErrInvalidQuantization constructs an invalidQuantizationError.
func ErrInvalidQuantization(label string) error { return invalidQuantizationError{label: label} }

// IsInvalidQuantization reports whether err indicates an unknown quantization label.
func IsInvalidQuantization(err error) bool {
	var e invalidQuantizationError
	return errors.As(err, &e)
}

// invalidInputError signals a numeric input outside its domain (negative, NaN, Inf).
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return "invalid input: " + e.msg }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err indicates an out-of-range numeric input.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}
