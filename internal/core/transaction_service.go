package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateSubmission is returned when an idempotency key has already been
// used. The stored transaction for that key is the one that counts.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// TransactionService posts and queries ledger transactions. Payloads arrive
// from the validator only; the service re-checks the structural invariants as
// a last line of defense before anything touches the ledger tables.
type TransactionService interface {
	Create(ctx context.Context, payload TransactionPayload, idempotencyKey string) (*Transaction, error)
	Get(ctx context.Context, id int) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	Delete(ctx context.Context, id int) error
}

type transactionService struct {
	pool *pgxpool.Pool
}

func NewTransactionService(pool *pgxpool.Pool) TransactionService {
	return &transactionService{pool: pool}
}

// checkPayload enforces the ledger invariants on a submitted payload. The
// client-side validator runs the same rules; a payload failing here means a
// caller bypassed it.
func checkPayload(p TransactionPayload) error {
	if p.Description == "" {
		return fmt.Errorf("transaction must have a description")
	}
	if len(p.Lines) < 2 {
		return fmt.Errorf("transaction must have at least 2 lines")
	}
	for i, l := range p.Lines {
		if l.Account == "" {
			return fmt.Errorf("line %d: missing account", i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("line %d: amounts cannot be negative", i+1)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return fmt.Errorf("line %d: exactly one of debit or credit must be set", i+1)
		}
	}
	debit, credit := LedgerTotals(p.Lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("transaction does not balance: debits %s, credits %s", debit, credit)
	}
	return nil
}

func (s *transactionService) Create(ctx context.Context, payload TransactionPayload, idempotencyKey string) (*Transaction, error) {
	if err := checkPayload(payload); err != nil {
		return nil, fmt.Errorf("payload validation failed: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var txnID int
	if idempotencyKey != "" {
		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (date, description, idempotency_key)
			VALUES ($1, $2, $3)
			ON CONFLICT (idempotency_key) DO NOTHING
			RETURNING id
		`, payload.Date, payload.Description, idempotencyKey).Scan(&txnID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("idempotency key %s already used: %w", idempotencyKey, ErrDuplicateSubmission)
		}
	} else {
		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (date, description)
			VALUES ($1, $2)
			RETURNING id
		`, payload.Date, payload.Description).Scan(&txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	for i, line := range payload.Lines {
		var accountID int
		err := tx.QueryRow(ctx, "SELECT id FROM accounts WHERE code = $1", line.Account).Scan(&accountID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("line %d: account code %s not found", i+1, line.Account)
			}
			return nil, fmt.Errorf("line %d: failed to resolve account: %w", i+1, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO transaction_lines (transaction_id, account_id, debit, credit)
			VALUES ($1, $2, $3, $4)
		`, txnID, accountID, line.Debit, line.Credit)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.Get(ctx, txnID)
}

func (s *transactionService) Get(ctx context.Context, id int) (*Transaction, error) {
	var t Transaction
	err := s.pool.QueryRow(ctx,
		"SELECT id, date::text, description, created_at FROM transactions WHERE id = $1",
		id,
	).Scan(&t.ID, &t.Date, &t.Description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch transaction %d: %w", id, err)
	}

	lines, err := s.fetchLines(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

func (s *transactionService) List(ctx context.Context) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, date::text, description, created_at FROM transactions ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	for i := range txns {
		lines, err := s.fetchLines(ctx, txns[i].ID)
		if err != nil {
			return nil, err
		}
		txns[i].Lines = lines
	}
	return txns, nil
}

func (s *transactionService) Delete(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

func (s *transactionService) fetchLines(ctx context.Context, txnID int) ([]TransactionLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tl.id, tl.transaction_id, tl.account_id, a.code, a.name, tl.debit, tl.credit
		FROM transaction_lines tl
		JOIN accounts a ON a.id = tl.account_id
		WHERE tl.transaction_id = $1
		ORDER BY tl.id
	`, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer rows.Close()

	var lines []TransactionLine
	for rows.Next() {
		var l TransactionLine
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.AccountID, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
