package web

import (
	"net/http"

	"erp-backoffice/internal/app"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req app.CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	category, err := h.svc.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"warehouses": warehouses})
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var req app.CreateWarehouseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	warehouse, err := h.svc.CreateWarehouse(r.Context(), req.Code, req.Name, req.Location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, warehouse)
}

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	levels, err := h.svc.StockLevels(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stock": levels})
}

func (h *Handler) listReceivings(w http.ResponseWriter, r *http.Request) {
	receivings, err := h.svc.ListReceivings(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"receivings": receivings})
}

func (h *Handler) createReceiving(w http.ResponseWriter, r *http.Request) {
	var req app.ReceivingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	receiving, err := h.svc.CreateReceiving(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receiving)
}

func (h *Handler) deleteReceiving(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteReceiving(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
