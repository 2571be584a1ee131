package app

import (
	"context"
	"fmt"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	catalog   core.CatalogService
	txns      core.TransactionService
	documents core.ItemizedDocumentService
	reports   core.ReportingService
	payments  core.PaymentService
	inventory core.InventoryService
}

// NewAppService wires the application service over the core services.
func NewAppService(
	catalog core.CatalogService,
	txns core.TransactionService,
	documents core.ItemizedDocumentService,
	reports core.ReportingService,
	payments core.PaymentService,
	inventory core.InventoryService,
) ApplicationService {
	return &appService{
		catalog:   catalog,
		txns:      txns,
		documents: documents,
		reports:   reports,
		payments:  payments,
		inventory: inventory,
	}
}

// transactionForm rebuilds the document form from a submitted request. Raw
// amount strings go into the form untouched; normalization and the rule set
// run exactly as they do for live edits.
func (s *appService) transactionForm(req TransactionRequest) *core.DocumentForm {
	f := core.NewDocumentForm(core.KindTransaction, s.catalog)
	f.Date = req.Date
	f.Description = req.Description

	lines := make([]core.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.Line{Reference: l.Account, Debit: l.Debit, Credit: l.Credit}
	}
	f.LoadLines(lines)
	return f
}

// documentForm rebuilds an itemized form, replaying each item through the
// line model so product references pull their canonical catalog price.
func (s *appService) documentForm(ctx context.Context, kind core.DocumentKind, req DocumentRequest) (*core.DocumentForm, error) {
	f := core.NewDocumentForm(kind, s.catalog)
	f.Contact = req.Contact
	f.Number = req.Number
	f.DueDate = req.DueDate
	f.ExpectedDate = req.ExpectedDate
	f.Status = req.Status
	f.Paid = req.Paid

	for i, item := range req.Items {
		if i > 0 {
			f.AddLine()
		}
		if err := f.UpdateField(ctx, i, core.FieldProduct, item.Product); err != nil {
			return nil, err
		}
		if err := f.UpdateField(ctx, i, core.FieldQuantity, item.Quantity); err != nil {
			return nil, err
		}
		if f.Rules().PriceOverride && item.UnitPrice != "" {
			if err := f.UpdateField(ctx, i, core.FieldUnitPrice, item.UnitPrice); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func (s *appService) ValidateTransaction(_ context.Context, req TransactionRequest) error {
	return s.transactionForm(req).Validate()
}

func (s *appService) CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error) {
	f := s.transactionForm(req)
	if err := f.Validate(); err != nil {
		return nil, err
	}

	payload, err := f.TransactionPayload()
	if err != nil {
		return nil, err
	}

	var txn *core.Transaction
	err = f.Submit(ctx, func(ctx context.Context) error {
		var err error
		txn, err = s.txns.Create(ctx, *payload, req.IdempotencyKey)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transactionResult(txn), nil
}

func (s *appService) ListTransactions(ctx context.Context) (*TransactionListResult, error) {
	txns, err := s.txns.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]TransactionResult, len(txns))
	for i := range txns {
		results[i] = *transactionResult(&txns[i])
	}
	return &TransactionListResult{Transactions: results}, nil
}

func (s *appService) DeleteTransaction(ctx context.Context, id int) error {
	return s.txns.Delete(ctx, id)
}

func (s *appService) SaveDocument(ctx context.Context, kind core.DocumentKind, existingID int, req DocumentRequest) (*DocumentResult, error) {
	if !kind.IsItemized() {
		return nil, fmt.Errorf("kind %s is not an itemized document", kind)
	}

	f, err := s.documentForm(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	payload, err := f.ItemizedPayload()
	if err != nil {
		return nil, err
	}

	var doc *core.ItemizedDocument
	err = f.Submit(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.Save(ctx, *payload, existingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DocumentResult{Document: doc}, nil
}

func (s *appService) ListDocuments(ctx context.Context, kind core.DocumentKind) (*DocumentListResult, error) {
	docs, err := s.documents.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Documents: docs}, nil
}

func (s *appService) DeleteDocument(ctx context.Context, kind core.DocumentKind, id int) error {
	return s.documents.Delete(ctx, kind, id)
}

func (s *appService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.catalog.ListAccounts(ctx)
}

func (s *appService) CreateAccount(ctx context.Context, code, name string, typ core.AccountType) (*core.Account, error) {
	return s.catalog.CreateAccount(ctx, code, name, typ)
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *appService) CreateProduct(ctx context.Context, code, name string, unitPrice decimal.Decimal) (*core.Product, error) {
	return s.catalog.CreateProduct(ctx, code, name, unitPrice)
}

func (s *appService) ListClients(ctx context.Context) ([]core.Client, error) {
	return s.catalog.ListClients(ctx)
}

func (s *appService) CreateClient(ctx context.Context, code, name, email, phone string) (*core.Client, error) {
	return s.catalog.CreateClient(ctx, code, name, email, phone)
}

func (s *appService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.catalog.ListSuppliers(ctx)
}

func (s *appService) CreateSupplier(ctx context.Context, code, name, contactPerson, phone string) (*core.Supplier, error) {
	return s.catalog.CreateSupplier(ctx, code, name, contactPerson, phone)
}

func (s *appService) BalanceSheet(ctx context.Context, asOfDate string) (*core.BalanceSheet, error) {
	return s.reports.BalanceSheet(ctx, asOfDate)
}

func (s *appService) IncomeStatement(ctx context.Context, fromDate, toDate string) (*core.IncomeStatement, error) {
	return s.reports.IncomeStatement(ctx, fromDate, toDate)
}

func (s *appService) SavePayment(ctx context.Context, existingID int, req PaymentRequest) (*core.Payment, error) {
	payload := core.PaymentPayload{
		InvoiceID: req.InvoiceID,
		Number:    req.Number,
		Method:    req.Method,
		Date:      req.Date,
		Amount:    core.ParseDecimal(req.Amount),
	}
	return s.payments.Save(ctx, payload, existingID)
}

func (s *appService) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return s.payments.List(ctx)
}

func (s *appService) DeletePayment(ctx context.Context, id int) error {
	return s.payments.Delete(ctx, id)
}

func (s *appService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.inventory.ListCategories(ctx)
}

func (s *appService) CreateCategory(ctx context.Context, name, description string) (*core.Category, error) {
	return s.inventory.CreateCategory(ctx, name, description)
}

func (s *appService) ListWarehouses(ctx context.Context) ([]core.Warehouse, error) {
	return s.inventory.ListWarehouses(ctx)
}

func (s *appService) CreateWarehouse(ctx context.Context, code, name, location string) (*core.Warehouse, error) {
	return s.inventory.CreateWarehouse(ctx, code, name, location)
}

func (s *appService) StockLevels(ctx context.Context) ([]core.StockLevel, error) {
	return s.inventory.StockLevels(ctx)
}

func (s *appService) CreateReceiving(ctx context.Context, req ReceivingRequest) (*core.Receiving, error) {
	payload := core.ReceivingPayload{
		PurchaseOrderID: req.PurchaseOrderID,
		Warehouse:       req.Warehouse,
	}
	for _, it := range req.Items {
		payload.Items = append(payload.Items, core.ReceivingItemInput{
			Product:  it.Product,
			Quantity: core.ParseAmount(it.Quantity).IntPart(),
		})
	}
	return s.inventory.Receive(ctx, payload)
}

func (s *appService) ListReceivings(ctx context.Context) ([]core.Receiving, error) {
	return s.inventory.ListReceivings(ctx)
}

func (s *appService) DeleteReceiving(ctx context.Context, id int) error {
	return s.inventory.DeleteReceiving(ctx, id)
}

// transactionResult attaches the recomputed totals to a stored transaction.
// Same summation path as validation, so the listed totals cannot drift.
func transactionResult(t *core.Transaction) *TransactionResult {
	lines := make([]core.TransactionPayloadLine, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = core.TransactionPayloadLine{Account: l.AccountCode, Debit: l.Debit, Credit: l.Credit}
	}
	debit, credit := core.LedgerTotals(lines)
	return &TransactionResult{Transaction: t, TotalDebit: debit, TotalCredit: credit}
}
