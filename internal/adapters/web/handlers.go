package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"erp-backoffice/internal/app"
	"erp-backoffice/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handler serves the HTTP API. All routes delegate to the application
// service; no business rules live here.
type Handler struct {
	svc      app.ApplicationService
	log      *logrus.Logger
	validate *validator.Validate
}

// NewHandler builds the router with the full middleware chain.
func NewHandler(svc app.ApplicationService, log *logrus.Logger, allowedOrigins string) http.Handler {
	h := &Handler{
		svc:      svc,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(maxRequestBody))

	r.Get("/api/health", h.health)

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", h.listAccounts)
		r.Post("/", h.createAccount)
	})
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
	})
	r.Route("/api/clients", func(r chi.Router) {
		r.Get("/", h.listClients)
		r.Post("/", h.createClient)
	})
	r.Route("/api/suppliers", func(r chi.Router) {
		r.Get("/", h.listSuppliers)
		r.Post("/", h.createSupplier)
	})

	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", h.listTransactions)
		r.Post("/", h.createTransaction)
		r.Post("/validate", h.validateTransaction)
		r.Delete("/{id}", h.deleteTransaction)
	})

	h.documentRoutes(r, "/api/invoices", core.KindInvoice)
	h.documentRoutes(r, "/api/quotes", core.KindQuote)
	h.documentRoutes(r, "/api/purchase-orders", core.KindPurchaseOrder)

	r.Route("/api/payments", func(r chi.Router) {
		r.Get("/", h.listPayments)
		r.Post("/", h.createPayment)
		r.Put("/{id}", h.updatePayment)
		r.Delete("/{id}", h.deletePayment)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/balance-sheet", h.balanceSheet)
		r.Get("/income-statement", h.incomeStatement)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
	})
	r.Route("/api/warehouses", func(r chi.Router) {
		r.Get("/", h.listWarehouses)
		r.Post("/", h.createWarehouse)
	})
	r.Get("/api/stock", h.listStock)
	r.Route("/api/receivings", func(r chi.Router) {
		r.Get("/", h.listReceivings)
		r.Post("/", h.createReceiving)
		r.Delete("/{id}", h.deleteReceiving)
	})

	return r
}

func (h *Handler) documentRoutes(r chi.Router, pattern string, kind core.DocumentKind) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.listDocuments(kind))
		r.Post("/", h.createDocument(kind))
		r.Put("/{id}", h.updateDocument(kind))
		r.Delete("/{id}", h.deleteDocument(kind))
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, "request body too large", "BODY_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return err
		}
		writeError(w, r, fmt.Sprintf("invalid request body: %v", err), "BAD_REQUEST", http.StatusBadRequest)
		return err
	}
	return nil
}

// checkStruct runs tag validation and writes a 400 on failure.
func (h *Handler) checkStruct(w http.ResponseWriter, r *http.Request, v any) error {
	if err := h.validate.Struct(v); err != nil {
		writeError(w, r, fmt.Sprintf("invalid request: %v", err), "BAD_REQUEST", http.StatusBadRequest)
		return err
	}
	return nil
}
