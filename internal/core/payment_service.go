package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PaymentPayload is the submission shape for a payment against an invoice.
type PaymentPayload struct {
	InvoiceID int             `json:"invoice_id"`
	Number    string          `json:"number"`
	Method    string          `json:"method"`
	Date      string          `json:"date"` // YYYY-MM-DD, empty defaults to today
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentService records collections against invoices. Saving or deleting a
// payment refreshes the invoice's paid flag from the remaining payment sum,
// inside the same database transaction.
type PaymentService interface {
	// Save creates the payment when existingID is zero, otherwise replaces
	// the stored record with the payload.
	Save(ctx context.Context, payload PaymentPayload, existingID int) (*Payment, error)
	Get(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	Delete(ctx context.Context, id int) error
}

type paymentService struct {
	pool *pgxpool.Pool
}

func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

func checkPaymentPayload(p PaymentPayload) error {
	if p.InvoiceID <= 0 {
		return fmt.Errorf("invoice is required")
	}
	if strings.TrimSpace(p.Number) == "" {
		return fmt.Errorf("payment number is required")
	}
	switch p.Method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
	default:
		return fmt.Errorf("unknown payment method %q", p.Method)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("payment amount must be positive, got %s", p.Amount)
	}
	if p.Date != "" {
		if _, err := time.Parse("2006-01-02", p.Date); err != nil {
			return fmt.Errorf("invalid payment date, expected YYYY-MM-DD")
		}
	}
	return nil
}

func (s *paymentService) Save(ctx context.Context, payload PaymentPayload, existingID int) (*Payment, error) {
	if err := checkPaymentPayload(payload); err != nil {
		return nil, err
	}
	date := payload.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin payment save: %w", err)
	}
	defer tx.Rollback(ctx)

	// The target must be an invoice; payments never attach to quotes or
	// purchase orders.
	var invoiceID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM documents WHERE id = $1 AND kind = $2",
		payload.InvoiceID, KindInvoice,
	).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", payload.InvoiceID)
		}
		return nil, fmt.Errorf("failed to resolve invoice %d: %w", payload.InvoiceID, err)
	}

	paymentID := existingID
	if existingID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO payments (invoice_id, number, method, date, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, invoiceID, payload.Number, payload.Method, date, payload.Amount).Scan(&paymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert payment: %w", err)
		}
	} else {
		// A replaced payment may move to a different invoice; refresh the
		// paid flag on the one it leaves behind too.
		var previousInvoiceID int
		err = tx.QueryRow(ctx,
			"SELECT invoice_id FROM payments WHERE id = $1", existingID,
		).Scan(&previousInvoiceID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("payment %d not found", existingID)
			}
			return nil, fmt.Errorf("failed to fetch payment %d: %w", existingID, err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE payments
			SET invoice_id = $1, number = $2, method = $3, date = $4, amount = $5
			WHERE id = $6
		`, invoiceID, payload.Number, payload.Method, date, payload.Amount, existingID)
		if err != nil {
			return nil, fmt.Errorf("failed to update payment %d: %w", existingID, err)
		}
		if previousInvoiceID != invoiceID {
			if err := refreshInvoicePaid(ctx, tx, previousInvoiceID); err != nil {
				return nil, err
			}
		}
	}

	if err := refreshInvoicePaid(ctx, tx, invoiceID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment save: %w", err)
	}
	return s.Get(ctx, paymentID)
}

// refreshInvoicePaid recomputes the invoice paid flag from the payment sum.
func refreshInvoicePaid(ctx context.Context, tx pgx.Tx, invoiceID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE documents
		SET paid = COALESCE((SELECT SUM(amount) FROM payments WHERE invoice_id = $1), 0) >= total
		WHERE id = $1
	`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to refresh paid flag for invoice %d: %w", invoiceID, err)
	}
	return nil
}

const paymentSelect = `
	SELECT p.id, p.invoice_id, COALESCE(d.number, ''), c.name,
	       p.number, p.method, p.date::text, p.amount, p.created_at
	FROM payments p
	JOIN documents d ON d.id = p.invoice_id
	JOIN clients c   ON c.id = d.contact_id`

func (s *paymentService) Get(ctx context.Context, id int) (*Payment, error) {
	var p Payment
	err := s.pool.QueryRow(ctx, paymentSelect+" WHERE p.id = $1", id).Scan(
		&p.ID, &p.InvoiceID, &p.InvoiceNumber, &p.ClientName,
		&p.Number, &p.Method, &p.Date, &p.Amount, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch payment %d: %w", id, err)
	}
	return &p, nil
}

func (s *paymentService) List(ctx context.Context) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, paymentSelect+" ORDER BY p.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.InvoiceID, &p.InvoiceNumber, &p.ClientName,
			&p.Number, &p.Method, &p.Date, &p.Amount, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) Delete(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin payment delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceID int
	err = tx.QueryRow(ctx,
		"DELETE FROM payments WHERE id = $1 RETURNING invoice_id", id,
	).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("payment %d not found", id)
		}
		return fmt.Errorf("failed to delete payment %d: %w", id, err)
	}

	if err := refreshInvoicePaid(ctx, tx, invoiceID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit payment delete: %w", err)
	}
	return nil
}
