package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"erp-backoffice/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, msg, code string, status int) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	})
}

// writeServiceError maps application errors onto HTTP status codes.
// Validation failures are 422, duplicate submissions 409, missing
// records 404, everything else is a plain 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, verr.Error(), "VALIDATION_FAILED", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrDuplicateSubmission):
		writeError(w, r, "duplicate submission", "DUPLICATE_SUBMISSION", http.StatusConflict)
	case strings.Contains(err.Error(), "not found"):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
