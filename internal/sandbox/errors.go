package sandbox

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/impt/internal/fleet"
	"github.com/nerrad567/impt/internal/platform"
)

// Error codes written in the error envelope.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, platform.ErrorBody{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeFleetError maps a repository error onto a status and code. Anything
// unrecognised is logged and reported as an internal error.
func (s *Server) writeFleetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fleet.ErrAccountNotFound),
		errors.Is(err, fleet.ErrProductNotFound),
		errors.Is(err, fleet.ErrGroupNotFound),
		errors.Is(err, fleet.ErrDeviceNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, fleet.ErrAccountExists),
		errors.Is(err, fleet.ErrProductExists),
		errors.Is(err, fleet.ErrGroupExists),
		errors.Is(err, fleet.ErrDeviceExists),
		errors.Is(err, fleet.ErrDeviceAssigned),
		errors.Is(err, fleet.ErrProductInUse):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, fleet.ErrNameRequired),
		errors.Is(err, fleet.ErrInvalidMACAddress),
		errors.Is(err, fleet.ErrInvalidGroupType),
		errors.Is(err, fleet.ErrUnsupportedType),
		errors.Is(err, fleet.ErrUnsupportedAttribute):
		writeBadRequest(w, err.Error())
	default:
		s.logger.Error("fleet operation failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "internal server error")
	}
}
