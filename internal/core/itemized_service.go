package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemizedDocumentService persists invoices, quotes, and purchase orders.
// The three kinds share one storage shape and one code path; the kind column
// keeps them apart, and the contact reference resolves against clients or
// suppliers depending on it.
type ItemizedDocumentService interface {
	// Save creates the document when existingID is zero, otherwise replaces
	// the stored record (headers and items) with the payload.
	Save(ctx context.Context, payload ItemizedPayload, existingID int) (*ItemizedDocument, error)
	Get(ctx context.Context, kind DocumentKind, id int) (*ItemizedDocument, error)
	List(ctx context.Context, kind DocumentKind) ([]ItemizedDocument, error)
	Delete(ctx context.Context, kind DocumentKind, id int) error
}

type itemizedDocumentService struct {
	pool *pgxpool.Pool
}

func NewItemizedDocumentService(pool *pgxpool.Pool) ItemizedDocumentService {
	return &itemizedDocumentService{pool: pool}
}

// contactTable maps a document kind to the master data table its contact
// reference lives in.
func contactTable(kind DocumentKind) (string, error) {
	switch kind {
	case KindInvoice, KindQuote:
		return "clients", nil
	case KindPurchaseOrder:
		return "suppliers", nil
	default:
		return "", fmt.Errorf("kind %s is not an itemized document", kind)
	}
}

func checkItemizedPayload(p ItemizedPayload) error {
	if !p.Kind.IsItemized() {
		return fmt.Errorf("kind %s is not an itemized document", p.Kind)
	}
	if p.Contact == "" {
		return fmt.Errorf("document must have a contact")
	}
	if len(p.Items) < 1 {
		return fmt.Errorf("document must have at least 1 item line")
	}
	for i, it := range p.Items {
		if it.Product == "" {
			return fmt.Errorf("item %d: missing product", i+1)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: unit price cannot be negative", i+1)
		}
	}
	// The stored total must equal the recomputed line total exactly.
	if !p.Total.Equal(ItemizedTotal(p.Items)) {
		return fmt.Errorf("payload total %s does not match line total %s", p.Total, ItemizedTotal(p.Items))
	}
	return nil
}

func (s *itemizedDocumentService) Save(ctx context.Context, payload ItemizedPayload, existingID int) (*ItemizedDocument, error) {
	if err := checkItemizedPayload(payload); err != nil {
		return nil, fmt.Errorf("payload validation failed: %w", err)
	}
	table, err := contactTable(payload.Kind)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var contactID int
	err = tx.QueryRow(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE code = $1", table),
		payload.Contact,
	).Scan(&contactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contact code %s not found in %s", payload.Contact, table)
		}
		return nil, fmt.Errorf("failed to resolve contact: %w", err)
	}

	docID := existingID
	if existingID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO documents (kind, contact_id, number, due_date, expected_date, status, paid, total)
			VALUES ($1, $2, $3, NULLIF($4, '')::date, NULLIF($5, '')::date, $6, $7, $8)
			RETURNING id
		`, payload.Kind, contactID, payload.Number, payload.DueDate, payload.ExpectedDate,
			payload.Status, payload.Paid, payload.Total).Scan(&docID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert document: %w", err)
		}
	} else {
		tag, err := tx.Exec(ctx, `
			UPDATE documents
			SET contact_id = $1, number = $2, due_date = NULLIF($3, '')::date,
			    expected_date = NULLIF($4, '')::date, status = $5, paid = $6, total = $7
			WHERE id = $8 AND kind = $9
		`, contactID, payload.Number, payload.DueDate, payload.ExpectedDate,
			payload.Status, payload.Paid, payload.Total, existingID, payload.Kind)
		if err != nil {
			return nil, fmt.Errorf("failed to update document %d: %w", existingID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%s %d not found", payload.Kind, existingID)
		}
		// Replace items wholesale; the payload is the complete new state.
		if _, err := tx.Exec(ctx, "DELETE FROM document_items WHERE document_id = $1", existingID); err != nil {
			return nil, fmt.Errorf("failed to clear items for document %d: %w", existingID, err)
		}
	}

	for i, it := range payload.Items {
		var productID int
		err := tx.QueryRow(ctx,
			"SELECT id FROM products WHERE code = $1",
			it.Product,
		).Scan(&productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item %d: product code %s not found", i+1, it.Product)
			}
			return nil, fmt.Errorf("item %d: failed to resolve product: %w", i+1, err)
		}

		lineTotal := ItemizedTotal([]ItemPayload{it})
		_, err = tx.Exec(ctx, `
			INSERT INTO document_items (document_id, line_number, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, docID, i+1, productID, it.Quantity, it.UnitPrice, lineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit document save: %w", err)
	}

	return s.Get(ctx, payload.Kind, docID)
}

func (s *itemizedDocumentService) Get(ctx context.Context, kind DocumentKind, id int) (*ItemizedDocument, error) {
	table, err := contactTable(kind)
	if err != nil {
		return nil, err
	}

	var d ItemizedDocument
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT d.id, d.kind, d.contact_id, c.code, c.name,
		       COALESCE(d.number, ''), COALESCE(d.due_date::text, ''), COALESCE(d.expected_date::text, ''),
		       COALESCE(d.status, ''), d.paid, d.total, d.created_at
		FROM documents d
		JOIN %s c ON c.id = d.contact_id
		WHERE d.id = $1 AND d.kind = $2
	`, table), id, kind).Scan(
		&d.ID, &d.Kind, &d.ContactID, &d.ContactCode, &d.ContactName,
		&d.Number, &d.DueDate, &d.ExpectedDate, &d.Status, &d.Paid, &d.Total, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s %d not found", kind, id)
		}
		return nil, fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
	}

	items, err := s.fetchItems(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return &d, nil
}

func (s *itemizedDocumentService) List(ctx context.Context, kind DocumentKind) ([]ItemizedDocument, error) {
	table, err := contactTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT d.id, d.kind, d.contact_id, c.code, c.name,
		       COALESCE(d.number, ''), COALESCE(d.due_date::text, ''), COALESCE(d.expected_date::text, ''),
		       COALESCE(d.status, ''), d.paid, d.total, d.created_at
		FROM documents d
		JOIN %s c ON c.id = d.contact_id
		WHERE d.kind = $1
		ORDER BY d.id DESC
	`, table), kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s documents: %w", kind, err)
	}
	defer rows.Close()

	var docs []ItemizedDocument
	for rows.Next() {
		var d ItemizedDocument
		if err := rows.Scan(
			&d.ID, &d.Kind, &d.ContactID, &d.ContactCode, &d.ContactName,
			&d.Number, &d.DueDate, &d.ExpectedDate, &d.Status, &d.Paid, &d.Total, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	for i := range docs {
		items, err := s.fetchItems(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Items = items
	}
	return docs, nil
}

func (s *itemizedDocumentService) Delete(ctx context.Context, kind DocumentKind, id int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM documents WHERE id = $1 AND kind = $2", id, kind)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d not found", kind, id)
	}
	return nil
}

func (s *itemizedDocumentService) fetchItems(ctx context.Context, docID int) ([]DocumentItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT di.id, di.document_id, di.line_number, p.id, p.code, p.name,
		       di.quantity, di.unit_price, di.line_total
		FROM document_items di
		JOIN products p ON p.id = di.product_id
		WHERE di.document_id = $1
		ORDER BY di.line_number
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query document items: %w", err)
	}
	defer rows.Close()

	var items []DocumentItem
	for rows.Next() {
		var it DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.LineNumber, &it.ProductID, &it.ProductCode,
			&it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan document item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
