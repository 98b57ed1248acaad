package resolver

import "errors"

// metadataUnavailableError wraps any failure returned by the metadata provider.
type metadataUnavailableError struct {
	model string
	err   error
}

func (e metadataUnavailableError) Error() string {
	return "metadata unavailable for " + e.model + ": " + e.err.Error()
}

func (e metadataUnavailableError) Unwrap() error { return e.err }

// ErrMetadataUnavailable constructs a metadataUnavailableError wrapping cause.
func ErrMetadataUnavailable(model string, cause error) error {
	if cause == nil {
		cause = errors.New("unknown provider failure")
	}
	return metadataUnavailableError{model: model, err: cause}
}

// IsMetadataUnavailable reports whether err came from a failed provider lookup.
func IsMetadataUnavailable(err error) bool {
	var e metadataUnavailableError
	return errors.As(err, &e)
}

// unresolvableParameterCountError signals that neither the provider nor the
// identifier gave a parameter count.
type unresolvableParameterCountError struct{ model string }

func (e unresolvableParameterCountError) Error() string {
	return "cannot determine parameter count for " + e.model
}

// ErrUnresolvableParameterCount constructs an unresolvableParameterCountError.
func ErrUnresolvableParameterCount(model string) error {
	return unresolvableParameterCountError{model: model}
}

// IsUnresolvableParameterCount reports whether err indicates an unknown parameter count.
func IsUnresolvableParameterCount(err error) bool {
	var e unresolvableParameterCountError
	return errors.As(err, &e)
}

var errNoProvider = errors.New("no metadata provider configured")
