package app

import (
	"context"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface every adapter calls. It owns the
// form → normalize → validate → payload → persist pipeline; adapters never
// touch core services directly and contain no business rules.
type ApplicationService interface {
	// ValidateTransaction runs the full rule set without persisting anything.
	ValidateTransaction(ctx context.Context, req TransactionRequest) error

	// CreateTransaction validates and posts a ledger transaction.
	CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error)

	// ListTransactions returns all transactions, newest first, with their
	// debit/credit totals.
	ListTransactions(ctx context.Context) (*TransactionListResult, error)

	// DeleteTransaction removes a transaction and its lines.
	DeleteTransaction(ctx context.Context, id int) error

	// SaveDocument validates and persists an invoice, quote, or purchase
	// order. existingID zero means create; non-zero replaces that record.
	SaveDocument(ctx context.Context, kind core.DocumentKind, existingID int, req DocumentRequest) (*DocumentResult, error)

	// ListDocuments returns all documents of one kind, newest first.
	ListDocuments(ctx context.Context, kind core.DocumentKind) (*DocumentListResult, error)

	// DeleteDocument removes a document and its items.
	DeleteDocument(ctx context.Context, kind core.DocumentKind, id int) error

	// Master data.
	ListAccounts(ctx context.Context) ([]core.Account, error)
	CreateAccount(ctx context.Context, code, name string, typ core.AccountType) (*core.Account, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	CreateProduct(ctx context.Context, code, name string, unitPrice decimal.Decimal) (*core.Product, error)
	ListClients(ctx context.Context) ([]core.Client, error)
	CreateClient(ctx context.Context, code, name, email, phone string) (*core.Client, error)
	ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	CreateSupplier(ctx context.Context, code, name, contactPerson, phone string) (*core.Supplier, error)

	// Reports over the posted ledger.
	BalanceSheet(ctx context.Context, asOfDate string) (*core.BalanceSheet, error)
	IncomeStatement(ctx context.Context, fromDate, toDate string) (*core.IncomeStatement, error)

	// Payments against invoices. existingID zero means create.
	SavePayment(ctx context.Context, existingID int, req PaymentRequest) (*core.Payment, error)
	ListPayments(ctx context.Context) ([]core.Payment, error)
	DeletePayment(ctx context.Context, id int) error

	// Inventory master data, stock, and goods receipts.
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*core.Category, error)
	ListWarehouses(ctx context.Context) ([]core.Warehouse, error)
	CreateWarehouse(ctx context.Context, code, name, location string) (*core.Warehouse, error)
	StockLevels(ctx context.Context) ([]core.StockLevel, error)
	CreateReceiving(ctx context.Context, req ReceivingRequest) (*core.Receiving, error)
	ListReceivings(ctx context.Context) ([]core.Receiving, error)
	DeleteReceiving(ctx context.Context, id int) error
}
