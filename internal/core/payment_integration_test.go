package core_test

import (
	"context"
	"strings"
	"testing"

	"erp-backoffice/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func paymentFor(invoiceID int, number, amount string) core.PaymentPayload {
	return core.PaymentPayload{
		InvoiceID: invoiceID,
		Number:    number,
		Method:    core.PaymentMethodTransfer,
		Date:      "2026-08-20",
		Amount:    decimal.RequireFromString(amount),
	}
}

func invoicePaid(t *testing.T, pool *pgxpool.Pool, invoiceID int) bool {
	t.Helper()
	var paid bool
	err := pool.QueryRow(context.Background(),
		"SELECT paid FROM documents WHERE id = $1", invoiceID).Scan(&paid)
	if err != nil {
		t.Fatalf("fetch paid flag: %v", err)
	}
	return paid
}

func TestPaymentService_SaveMarksInvoicePaidWhenCovered(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	doc, err := core.NewItemizedDocumentService(pool).Save(ctx, invoicePayload(), 0)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	svc := core.NewPaymentService(pool)

	// A partial payment leaves the invoice open.
	p1, err := svc.Save(ctx, paymentFor(doc.ID, "PAY-001", "15.00"), 0)
	if err != nil {
		t.Fatalf("Save partial: %v", err)
	}
	if p1.InvoiceNumber != "F-0001" || p1.ClientName != "Acme SA" {
		t.Errorf("payment joins = %q / %q, want F-0001 / Acme SA", p1.InvoiceNumber, p1.ClientName)
	}
	if invoicePaid(t, pool, doc.ID) {
		t.Error("invoice should stay unpaid after a partial payment")
	}

	// The second payment covers the 40.00 total.
	p2, err := svc.Save(ctx, paymentFor(doc.ID, "PAY-002", "25.00"), 0)
	if err != nil {
		t.Fatalf("Save covering: %v", err)
	}
	if !invoicePaid(t, pool, doc.ID) {
		t.Error("invoice should be paid once payments cover the total")
	}

	// Deleting the covering payment reopens the invoice.
	if err := svc.Delete(ctx, p2.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if invoicePaid(t, pool, doc.ID) {
		t.Error("invoice should reopen after the covering payment is deleted")
	}

	payments, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != p1.ID {
		t.Errorf("expected only the partial payment to remain, got %+v", payments)
	}
}

func TestPaymentService_RejectsNonInvoiceTarget(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	poItems := []core.ItemPayload{
		{Product: "P1", Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
	}
	po, err := core.NewItemizedDocumentService(pool).Save(ctx, core.ItemizedPayload{
		Kind:    core.KindPurchaseOrder,
		Contact: "S1",
		Number:  "PO-0001",
		Status:  core.POStatusPending,
		Items:   poItems,
		Total:   core.ItemizedTotal(poItems),
	}, 0)
	if err != nil {
		t.Fatalf("create purchase order: %v", err)
	}

	_, err = core.NewPaymentService(pool).Save(ctx, paymentFor(po.ID, "PAY-001", "50.00"), 0)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error for a non-invoice target, got %v", err)
	}
}

func TestPaymentService_UpdateMovesPaymentBetweenInvoices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	docs := core.NewItemizedDocumentService(pool)
	first, err := docs.Save(ctx, invoicePayload(), 0)
	if err != nil {
		t.Fatalf("create first invoice: %v", err)
	}
	secondPayload := invoicePayload()
	secondPayload.Number = "F-0002"
	second, err := docs.Save(ctx, secondPayload, 0)
	if err != nil {
		t.Fatalf("create second invoice: %v", err)
	}

	svc := core.NewPaymentService(pool)
	p, err := svc.Save(ctx, paymentFor(first.ID, "PAY-001", "40.00"), 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !invoicePaid(t, pool, first.ID) {
		t.Fatal("first invoice should be paid")
	}

	// Reassigning the payment refreshes both invoices.
	moved := paymentFor(second.ID, "PAY-001", "40.00")
	if _, err := svc.Save(ctx, moved, p.ID); err != nil {
		t.Fatalf("Save (move): %v", err)
	}
	if invoicePaid(t, pool, first.ID) {
		t.Error("first invoice should reopen once its payment moves away")
	}
	if !invoicePaid(t, pool, second.ID) {
		t.Error("second invoice should be paid after receiving the payment")
	}
}

func TestPaymentService_SaveRejectsBadPayloads(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewPaymentService(pool)
	ctx := context.Background()

	bad := paymentFor(1, "PAY-001", "10.00")
	bad.Method = "cheque"
	if _, err := svc.Save(ctx, bad, 0); err == nil {
		t.Error("expected an unknown method to be rejected")
	}

	bad = paymentFor(1, "PAY-001", "0")
	if _, err := svc.Save(ctx, bad, 0); err == nil {
		t.Error("expected a zero amount to be rejected")
	}

	bad = paymentFor(1, " ", "10.00")
	if _, err := svc.Save(ctx, bad, 0); err == nil {
		t.Error("expected a blank number to be rejected")
	}
}
