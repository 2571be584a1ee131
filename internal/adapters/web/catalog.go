package web

import (
	"net/http"

	"erp-backoffice/internal/app"
	"erp-backoffice/internal/core"
)

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req app.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	account, err := h.svc.CreateAccount(r.Context(), req.Code, req.Name, core.AccountType(req.Type))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req app.CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	product, err := h.svc.CreateProduct(r.Context(), req.Code, req.Name, core.ParseDecimal(req.UnitPrice))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req app.CreateClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	client, err := h.svc.CreateClient(r.Context(), req.Code, req.Name, req.Email, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req app.CreateSupplierRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.checkStruct(w, r, req); err != nil {
		return
	}
	supplier, err := h.svc.CreateSupplier(r.Context(), req.Code, req.Name, req.ContactPerson, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}
