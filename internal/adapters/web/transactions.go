package web

import (
	"net/http"
	"strconv"

	"erp-backoffice/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req app.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	result, err := h.svc.CreateTransaction(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// validateTransaction runs the full rule set without posting anything,
// so clients can surface errors before submission.
func (h *Handler) validateTransaction(w http.ResponseWriter, r *http.Request) {
	var req app.TransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.svc.ValidateTransaction(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
