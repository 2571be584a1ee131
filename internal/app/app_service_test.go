package app

import (
	"context"
	"fmt"
	"testing"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCatalog is an in-memory CatalogService with a fixed product list.
// Only the methods the pipeline tests touch are live.
type memoryCatalog struct {
	prices map[string]decimal.Decimal
}

func (c *memoryCatalog) ProductPrice(_ context.Context, code string) (decimal.Decimal, error) {
	p, ok := c.prices[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("product code %s not found", code)
	}
	return p, nil
}

func (c *memoryCatalog) ListAccounts(context.Context) ([]core.Account, error) { return nil, nil }
func (c *memoryCatalog) CreateAccount(context.Context, string, string, core.AccountType) (*core.Account, error) {
	return nil, nil
}
func (c *memoryCatalog) ListProducts(context.Context) ([]core.Product, error) { return nil, nil }
func (c *memoryCatalog) CreateProduct(context.Context, string, string, decimal.Decimal) (*core.Product, error) {
	return nil, nil
}
func (c *memoryCatalog) ListClients(context.Context) ([]core.Client, error) { return nil, nil }
func (c *memoryCatalog) CreateClient(context.Context, string, string, string, string) (*core.Client, error) {
	return nil, nil
}
func (c *memoryCatalog) ListSuppliers(context.Context) ([]core.Supplier, error) { return nil, nil }
func (c *memoryCatalog) CreateSupplier(context.Context, string, string, string, string) (*core.Supplier, error) {
	return nil, nil
}

// capturingDocuments records the payload Save receives and echoes a document.
type capturingDocuments struct {
	saved *core.ItemizedPayload
}

func (d *capturingDocuments) Save(_ context.Context, payload core.ItemizedPayload, existingID int) (*core.ItemizedDocument, error) {
	d.saved = &payload
	return &core.ItemizedDocument{ID: 1, Kind: payload.Kind, Total: payload.Total}, nil
}

func (d *capturingDocuments) Get(context.Context, core.DocumentKind, int) (*core.ItemizedDocument, error) {
	return nil, nil
}

func (d *capturingDocuments) List(context.Context, core.DocumentKind) ([]core.ItemizedDocument, error) {
	return nil, nil
}

func (d *capturingDocuments) Delete(context.Context, core.DocumentKind, int) error { return nil }

// capturingTransactions records the payload Create receives.
type capturingTransactions struct {
	created *core.TransactionPayload
	key     string
}

func (s *capturingTransactions) Create(_ context.Context, payload core.TransactionPayload, idempotencyKey string) (*core.Transaction, error) {
	s.created = &payload
	s.key = idempotencyKey
	return &core.Transaction{ID: 1, Date: payload.Date, Description: payload.Description}, nil
}

func (s *capturingTransactions) Get(context.Context, int) (*core.Transaction, error) {
	return nil, nil
}
func (s *capturingTransactions) List(context.Context) ([]core.Transaction, error) { return nil, nil }
func (s *capturingTransactions) Delete(context.Context, int) error                { return nil }

func newTestApp() (ApplicationService, *capturingTransactions, *capturingDocuments) {
	catalog := &memoryCatalog{prices: map[string]decimal.Decimal{
		"SKU-001": decimal.NewFromInt(150),
		"SKU-002": decimal.RequireFromString("299.99"),
	}}
	txns := &capturingTransactions{}
	docs := &capturingDocuments{}
	// Reporting, payments, and inventory are untouched by the form pipeline.
	return NewAppService(catalog, txns, docs, nil, nil, nil), txns, docs
}

func TestValidateTransactionNormalizesRawAmounts(t *testing.T) {
	svc, _, _ := newTestApp()

	req := TransactionRequest{
		Date:        "2026-02-01",
		Description: "monthly rent",
		Lines: []TransactionLineInput{
			{Account: "6000", Debit: "12,500", Credit: ""},
			{Account: "1000", Debit: "", Credit: "12,500"},
		},
	}
	require.NoError(t, svc.ValidateTransaction(context.Background(), req))
}

func TestCreateTransactionForwardsIdempotencyKey(t *testing.T) {
	svc, txns, _ := newTestApp()

	req := TransactionRequest{
		Date:           "2026-02-01",
		Description:    "monthly rent",
		IdempotencyKey: "submit-abc",
		Lines: []TransactionLineInput{
			{Account: "6000", Debit: "100", Credit: ""},
			{Account: "1000", Debit: "", Credit: "100"},
		},
	}
	result, err := svc.CreateTransaction(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, txns.created)
	assert.Equal(t, "submit-abc", txns.key)
	assert.True(t, result.TotalDebit.Equal(result.TotalCredit))
}

func TestSaveInvoiceDerivesPriceFromCatalog(t *testing.T) {
	svc, _, docs := newTestApp()

	req := DocumentRequest{
		Contact: "CLI-001",
		Number:  "INV-100",
		DueDate: "2026-03-01",
		Items: []ItemInput{
			// Client-supplied unit price must be ignored for invoices.
			{Product: "SKU-001", Quantity: "2", UnitPrice: "1"},
		},
	}
	_, err := svc.SaveDocument(context.Background(), core.KindInvoice, 0, req)
	require.NoError(t, err)
	require.NotNil(t, docs.saved)
	require.Len(t, docs.saved.Items, 1)
	assert.True(t, docs.saved.Items[0].UnitPrice.Equal(decimal.NewFromInt(150)),
		"got %s", docs.saved.Items[0].UnitPrice)
	assert.True(t, docs.saved.Total.Equal(decimal.NewFromInt(300)))
}

func TestSavePurchaseOrderHonorsManualPrice(t *testing.T) {
	svc, _, docs := newTestApp()

	req := DocumentRequest{
		Contact:      "SUP-001",
		ExpectedDate: "2026-03-15",
		Items: []ItemInput{
			{Product: "SKU-001", Quantity: "3", UnitPrice: "99.50"},
		},
	}
	_, err := svc.SaveDocument(context.Background(), core.KindPurchaseOrder, 0, req)
	require.NoError(t, err)
	require.NotNil(t, docs.saved)
	assert.True(t, docs.saved.Items[0].UnitPrice.Equal(decimal.RequireFromString("99.50")))
	assert.True(t, docs.saved.Total.Equal(decimal.RequireFromString("298.50")))
}

func TestSaveDocumentRejectsUnknownProduct(t *testing.T) {
	svc, _, docs := newTestApp()

	req := DocumentRequest{
		Contact: "CLI-001",
		Number:  "INV-101",
		DueDate: "2026-03-01",
		Items: []ItemInput{
			{Product: "SKU-404", Quantity: "1"},
		},
	}
	_, err := svc.SaveDocument(context.Background(), core.KindInvoice, 0, req)
	require.Error(t, err)
	assert.Nil(t, docs.saved)
}

func TestSaveDocumentRejectsLedgerKind(t *testing.T) {
	svc, _, _ := newTestApp()
	_, err := svc.SaveDocument(context.Background(), core.KindTransaction, 0, DocumentRequest{})
	require.Error(t, err)
}
