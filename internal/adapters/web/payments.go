package web

import (
	"net/http"

	"erp-backoffice/internal/app"
)

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.ListPayments(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req app.PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	payment, err := h.svc.SavePayment(r.Context(), 0, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req app.PaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	payment, err := h.svc.SavePayment(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeletePayment(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
