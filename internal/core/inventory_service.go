package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReceivingPayload is the submission shape for a goods receipt.
type ReceivingPayload struct {
	PurchaseOrderID int                  `json:"purchase_order_id"`
	Warehouse       string               `json:"warehouse"` // warehouse code
	Items           []ReceivingItemInput `json:"items"`
}

type ReceivingItemInput struct {
	Product  string `json:"product"` // product code
	Quantity int64  `json:"quantity"`
}

// InventoryService manages category and warehouse master data, warehouse
// stock levels, and goods receipts against purchase orders.
type InventoryService interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name, description string) (*Category, error)

	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	CreateWarehouse(ctx context.Context, code, name, location string) (*Warehouse, error)

	// StockLevels returns on-hand quantities per product and warehouse.
	StockLevels(ctx context.Context) ([]StockLevel, error)

	// Receive registers a goods receipt: stock increases per item and the
	// purchase order moves to received status.
	Receive(ctx context.Context, payload ReceivingPayload) (*Receiving, error)
	ListReceivings(ctx context.Context) ([]Receiving, error)
	// DeleteReceiving reverses the receipt: stock decreases per item, and
	// the purchase order returns to pending if no other receipt covers it.
	DeleteReceiving(ctx context.Context, id int) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, description, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *inventoryService) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name is required")
	}
	var c Category
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`, strings.TrimSpace(name), strings.TrimSpace(description)).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category %s: %w", name, err)
	}
	return &c, nil
}

func (s *inventoryService) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, code, name, location, created_at FROM warehouses ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.Location, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *inventoryService) CreateWarehouse(ctx context.Context, code, name, location string) (*Warehouse, error) {
	if strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("warehouse code and name are required")
	}
	var w Warehouse
	err := s.pool.QueryRow(ctx, `
		INSERT INTO warehouses (code, name, location)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, location, created_at
	`, strings.TrimSpace(code), strings.TrimSpace(name), strings.TrimSpace(location)).Scan(
		&w.ID, &w.Code, &w.Name, &w.Location, &w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create warehouse %s: %w", code, err)
	}
	return &w, nil
}

func (s *inventoryService) StockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.code, p.name, w.code, w.name, sl.quantity
		FROM stock_levels sl
		JOIN products p   ON p.id = sl.product_id
		JOIN warehouses w ON w.id = sl.warehouse_id
		ORDER BY p.code, w.code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.ProductCode, &sl.ProductName,
			&sl.WarehouseCode, &sl.WarehouseName, &sl.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, rows.Err()
}

func (s *inventoryService) Receive(ctx context.Context, payload ReceivingPayload) (*Receiving, error) {
	if payload.PurchaseOrderID <= 0 {
		return nil, fmt.Errorf("purchase order is required")
	}
	if strings.TrimSpace(payload.Warehouse) == "" {
		return nil, fmt.Errorf("warehouse is required")
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("receiving must have at least one item")
	}
	for i, it := range payload.Items {
		if strings.TrimSpace(it.Product) == "" {
			return nil, fmt.Errorf("item %d: product is required", i+1)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("item %d: quantity must be at least 1", i+1)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin receiving: %w", err)
	}
	defer tx.Rollback(ctx)

	var poID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM documents WHERE id = $1 AND kind = $2",
		payload.PurchaseOrderID, KindPurchaseOrder,
	).Scan(&poID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d not found", payload.PurchaseOrderID)
		}
		return nil, fmt.Errorf("failed to resolve purchase order %d: %w", payload.PurchaseOrderID, err)
	}

	var warehouseID int
	err = tx.QueryRow(ctx,
		"SELECT id FROM warehouses WHERE code = $1", payload.Warehouse,
	).Scan(&warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("warehouse code %s not found", payload.Warehouse)
		}
		return nil, fmt.Errorf("failed to resolve warehouse: %w", err)
	}

	var receivingID int
	err = tx.QueryRow(ctx, `
		INSERT INTO receivings (purchase_order_id, warehouse_id)
		VALUES ($1, $2)
		RETURNING id
	`, poID, warehouseID).Scan(&receivingID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert receiving: %w", err)
	}

	for i, it := range payload.Items {
		var productID int
		err := tx.QueryRow(ctx,
			"SELECT id FROM products WHERE code = $1", it.Product,
		).Scan(&productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item %d: product code %s not found", i+1, it.Product)
			}
			return nil, fmt.Errorf("item %d: failed to resolve product: %w", i+1, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO receiving_items (receiving_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`, receivingID, productID, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to insert receiving item %d: %w", i+1, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO stock_levels (product_id, warehouse_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id, warehouse_id)
			DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity
		`, productID, warehouseID, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to update stock for product %s: %w", it.Product, err)
		}
	}

	_, err = tx.Exec(ctx,
		"UPDATE documents SET status = $1 WHERE id = $2", POStatusReceived, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to update purchase order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit receiving: %w", err)
	}
	return s.getReceiving(ctx, receivingID)
}

func (s *inventoryService) getReceiving(ctx context.Context, id int) (*Receiving, error) {
	var r Receiving
	err := s.pool.QueryRow(ctx, `
		SELECT r.id, r.purchase_order_id, r.warehouse_id, w.code, w.name, r.created_at
		FROM receivings r
		JOIN warehouses w ON w.id = r.warehouse_id
		WHERE r.id = $1
	`, id).Scan(&r.ID, &r.PurchaseOrderID, &r.WarehouseID,
		&r.WarehouseCode, &r.WarehouseName, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("receiving %d not found", id)
		}
		return nil, fmt.Errorf("failed to fetch receiving %d: %w", id, err)
	}

	items, err := s.fetchReceivingItems(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Items = items
	return &r, nil
}

func (s *inventoryService) ListReceivings(ctx context.Context) ([]Receiving, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.purchase_order_id, r.warehouse_id, w.code, w.name, r.created_at
		FROM receivings r
		JOIN warehouses w ON w.id = r.warehouse_id
		ORDER BY r.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query receivings: %w", err)
	}
	defer rows.Close()

	var receivings []Receiving
	for rows.Next() {
		var r Receiving
		if err := rows.Scan(&r.ID, &r.PurchaseOrderID, &r.WarehouseID,
			&r.WarehouseCode, &r.WarehouseName, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receiving: %w", err)
		}
		receivings = append(receivings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receivings: %w", err)
	}

	for i := range receivings {
		items, err := s.fetchReceivingItems(ctx, receivings[i].ID)
		if err != nil {
			return nil, err
		}
		receivings[i].Items = items
	}
	return receivings, nil
}

func (s *inventoryService) fetchReceivingItems(ctx context.Context, receivingID int) ([]ReceivingItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ri.id, ri.receiving_id, p.id, p.code, p.name, ri.quantity
		FROM receiving_items ri
		JOIN products p ON p.id = ri.product_id
		WHERE ri.receiving_id = $1
		ORDER BY ri.id
	`, receivingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query receiving items: %w", err)
	}
	defer rows.Close()

	var items []ReceivingItem
	for rows.Next() {
		var it ReceivingItem
		if err := rows.Scan(&it.ID, &it.ReceivingID, &it.ProductID,
			&it.ProductCode, &it.ProductName, &it.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan receiving item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *inventoryService) DeleteReceiving(ctx context.Context, id int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin receiving delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var poID, warehouseID int
	err = tx.QueryRow(ctx,
		"SELECT purchase_order_id, warehouse_id FROM receivings WHERE id = $1", id,
	).Scan(&poID, &warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("receiving %d not found", id)
		}
		return fmt.Errorf("failed to fetch receiving %d: %w", id, err)
	}

	items, err := s.fetchReceivingItems(ctx, id)
	if err != nil {
		return err
	}
	for _, it := range items {
		_, err := tx.Exec(ctx, `
			UPDATE stock_levels
			SET quantity = quantity - $1
			WHERE product_id = $2 AND warehouse_id = $3
		`, it.Quantity, it.ProductID, warehouseID)
		if err != nil {
			return fmt.Errorf("failed to reverse stock for product %s: %w", it.ProductCode, err)
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM receivings WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete receiving %d: %w", id, err)
	}

	// The order returns to pending only when no other receipt covers it.
	var remaining int
	err = tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM receivings WHERE purchase_order_id = $1", poID,
	).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("failed to count receivings for order %d: %w", poID, err)
	}
	if remaining == 0 {
		_, err = tx.Exec(ctx,
			"UPDATE documents SET status = $1 WHERE id = $2 AND status = $3",
			POStatusPending, poID, POStatusReceived)
		if err != nil {
			return fmt.Errorf("failed to revert purchase order status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit receiving delete: %w", err)
	}
	return nil
}
