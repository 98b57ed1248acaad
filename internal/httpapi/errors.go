package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vaibhavs10/llm-mem-finder/internal/estimator"
	"github.com/Vaibhavs10/llm-mem-finder/internal/resolver"
	"github.com/Vaibhavs10/llm-mem-finder/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case estimator.IsInvalidQuantization(err), estimator.IsInvalidInput(err):
		return http.StatusBadRequest
	case resolver.IsUnresolvableParameterCount(err):
		return http.StatusUnprocessableEntity
	case resolver.IsMetadataUnavailable(err):
		return http.StatusBadGateway
	case errors.As(err, &he):
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// failureReason is the metrics label for a failed request.
func failureReason(err error) string {
	switch {
	case estimator.IsInvalidQuantization(err):
		return "invalid_quantization"
	case estimator.IsInvalidInput(err):
		return "invalid_input"
	case resolver.IsUnresolvableParameterCount(err):
		return "unresolvable_parameters"
	case resolver.IsMetadataUnavailable(err):
		return "metadata_unavailable"
	}
	return "internal"
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON writes v with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
