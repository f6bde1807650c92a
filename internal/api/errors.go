package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/tasktrack-core/internal/auth"
	"github.com/nerrad567/tasktrack-core/internal/task"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeConflict     = "conflict"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
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
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDenial writes the response for a denied task operation.
func writeDenial(w http.ResponseWriter, reason task.Reason) {
	status, code := http.StatusForbidden, ErrCodeForbidden
	if reason == task.ReasonNotFound {
		status, code = http.StatusNotFound, ErrCodeNotFound
	}
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: reason.Message(),
		Reason:  string(reason),
	})
}

// writeServiceError maps a service error to its response. Anything not in
// the known taxonomy is logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w, "admin privileges required")
	case errors.Is(err, auth.ErrSelfModification):
		writeForbidden(w, auth.ErrSelfModification.Error())
	case errors.Is(err, auth.ErrDuplicateLogin):
		writeError(w, http.StatusConflict, ErrCodeConflict, "username already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeUnauthorized(w, "invalid credentials")
	case errors.Is(err, auth.ErrTokenInvalid):
		writeUnauthorized(w, "invalid or expired token")
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, task.ErrInvalidTitle):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		s.logger.Error(op+" failed",
			"error", err,
			"request_id", requestID(r),
		)
		writeInternalError(w, op+" failed")
	}
}
