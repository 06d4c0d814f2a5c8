package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// Error kinds reported for non-manifest failures
const (
	kindBadRequest           = "bad_request"
	kindUnsupportedMediaType = "unsupported_media_type"
	kindTooLarge             = "too_large"
	kindInternal             = "internal"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Path is the offending manifest field for
// resolution errors.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError maps an error onto a status code and error body. Manifest errors
// become 422 with their kind and field path.
func writeError(w http.ResponseWriter, err error) {
	var cerr entities.ConfigError
	if errors.As(err, &cerr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Kind:    cerr.Kind(),
			Path:    cerr.FieldPath(),
			Message: cerr.Error(),
		}})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
		Kind:    kindInternal,
		Message: "internal server error",
	}})
}

func writeRequestError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Kind: kind, Message: message}})
}
