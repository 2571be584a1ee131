package core_test

import (
	"context"
	"testing"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func invoicePayload() core.ItemizedPayload {
	items := []core.ItemPayload{
		{Product: "P1", Quantity: 3, UnitPrice: decimal.NewFromInt(10)},
		{Product: "P2", Quantity: 2, UnitPrice: decimal.NewFromInt(5)},
	}
	return core.ItemizedPayload{
		Kind:    core.KindInvoice,
		Contact: "C1",
		Number:  "F-0001",
		DueDate: "2026-09-30",
		Items:   items,
		Total:   core.ItemizedTotal(items),
	}
}

func TestItemizedDocumentService_CreateInvoice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewItemizedDocumentService(pool)
	ctx := context.Background()

	doc, err := svc.Save(ctx, invoicePayload(), 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if doc.ContactName != "Acme SA" {
		t.Errorf("contact name = %q", doc.ContactName)
	}
	if !doc.Total.Equal(decimal.NewFromInt(40)) {
		t.Errorf("total = %s, want 40", doc.Total)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if !doc.Items[0].LineTotal.Equal(decimal.NewFromInt(30)) {
		t.Errorf("item 1 line total = %s, want 30", doc.Items[0].LineTotal)
	}
}

func TestItemizedDocumentService_UpdateReplacesItems(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewItemizedDocumentService(pool)
	ctx := context.Background()

	doc, err := svc.Save(ctx, invoicePayload(), 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated := invoicePayload()
	updated.Items = []core.ItemPayload{
		{Product: "P2", Quantity: 10, UnitPrice: decimal.NewFromInt(5)},
	}
	updated.Total = core.ItemizedTotal(updated.Items)
	updated.Paid = true

	doc2, err := svc.Save(ctx, updated, doc.ID)
	if err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	if len(doc2.Items) != 1 {
		t.Fatalf("expected items replaced, got %d", len(doc2.Items))
	}
	if !doc2.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("total = %s, want 50", doc2.Total)
	}
	if !doc2.Paid {
		t.Error("paid flag not persisted")
	}
}

func TestItemizedDocumentService_KindsAreIsolated(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewItemizedDocumentService(pool)
	ctx := context.Background()

	inv, err := svc.Save(ctx, invoicePayload(), 0)
	if err != nil {
		t.Fatalf("Save invoice: %v", err)
	}

	poItems := []core.ItemPayload{
		{Product: "P1", Quantity: 5, UnitPrice: decimal.NewFromInt(8)},
	}
	po := core.ItemizedPayload{
		Kind:         core.KindPurchaseOrder,
		Contact:      "S1",
		ExpectedDate: "2026-10-15",
		Status:       core.POStatusPending,
		Items:        poItems,
		Total:        core.ItemizedTotal(poItems),
	}
	if _, err := svc.Save(ctx, po, 0); err != nil {
		t.Fatalf("Save purchase order: %v", err)
	}

	invoices, err := svc.List(ctx, core.KindInvoice)
	if err != nil {
		t.Fatalf("List invoices: %v", err)
	}
	if len(invoices) != 1 {
		t.Errorf("expected 1 invoice, got %d", len(invoices))
	}

	// A purchase order id is invisible through the invoice kind.
	if _, err := svc.Get(ctx, core.KindPurchaseOrder, inv.ID); err == nil {
		t.Error("expected invoice to be invisible as a purchase order")
	}
}

func TestItemizedDocumentService_RejectsTotalDrift(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewItemizedDocumentService(pool)

	p := invoicePayload()
	p.Total = decimal.NewFromInt(9999)
	if _, err := svc.Save(context.Background(), p, 0); err == nil {
		t.Fatal("expected drifted total to be rejected")
	}
}

func TestCatalogService_ProductPrice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewCatalogService(pool)
	ctx := context.Background()

	price, err := svc.ProductPrice(ctx, "P1")
	if err != nil {
		t.Fatalf("ProductPrice: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("price = %s, want 10", price)
	}

	if _, err := svc.ProductPrice(ctx, "MISSING"); err == nil {
		t.Fatal("expected unknown product to error")
	}
}
