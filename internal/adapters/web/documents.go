package web

import (
	"net/http"

	"erp-backoffice/internal/app"
	"erp-backoffice/internal/core"
)

func (h *Handler) listDocuments(kind core.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.svc.ListDocuments(r.Context(), kind)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) createDocument(kind core.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req app.DocumentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		result, err := h.svc.SaveDocument(r.Context(), kind, 0, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func (h *Handler) updateDocument(kind core.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamInt(r, "id")
		if err != nil {
			writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		var req app.DocumentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return
		}
		result, err := h.svc.SaveDocument(r.Context(), kind, id, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) deleteDocument(kind core.DocumentKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlParamInt(r, "id")
		if err != nil {
			writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		if err := h.svc.DeleteDocument(r.Context(), kind, id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
