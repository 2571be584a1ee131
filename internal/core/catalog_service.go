package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService provides master data: the chart of accounts, the product
// catalog, clients, and suppliers. It is also the CatalogLookup the line
// model uses for price derivation.
type CatalogService interface {
	CatalogLookup

	ListAccounts(ctx context.Context) ([]Account, error)
	CreateAccount(ctx context.Context, code, name string, typ AccountType) (*Account, error)

	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, code, name string, unitPrice decimal.Decimal) (*Product, error)

	ListClients(ctx context.Context) ([]Client, error)
	CreateClient(ctx context.Context, code, name, email, phone string) (*Client, error)

	ListSuppliers(ctx context.Context) ([]Supplier, error)
	CreateSupplier(ctx context.Context, code, name, contactPerson, phone string) (*Supplier, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

// ProductPrice returns the canonical unit price for a product code.
func (s *catalogService) ProductPrice(ctx context.Context, productCode string) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT unit_price FROM products WHERE code = $1 AND is_active = true",
		productCode,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("product code %s not found", productCode)
		}
		return decimal.Zero, fmt.Errorf("failed to fetch product price: %w", err)
	}
	return price, nil
}

func (s *catalogService) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, code, name, type, created_at FROM accounts ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *catalogService) CreateAccount(ctx context.Context, code, name string, typ AccountType) (*Account, error) {
	var a Account
	err := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (code, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, type, created_at
	`, code, name, typ).Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &a, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, unit_price, is_active, created_at
		FROM products
		WHERE is_active = true
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.UnitPrice, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogService) CreateProduct(ctx context.Context, code, name string, unitPrice decimal.Decimal) (*Product, error) {
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative")
	}
	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (code, name, unit_price)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, unit_price, is_active, created_at
	`, code, name, unitPrice).Scan(&p.ID, &p.Code, &p.Name, &p.UnitPrice, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, code, name, email, phone, created_at FROM clients ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *catalogService) CreateClient(ctx context.Context, code, name, email, phone string) (*Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (code, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, name, email, phone, created_at
	`, code, name, email, phone).Scan(&c.ID, &c.Code, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, code, name, contact_person, phone, created_at FROM suppliers ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.Code, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, rows.Err()
}

func (s *catalogService) CreateSupplier(ctx context.Context, code, name, contactPerson, phone string) (*Supplier, error) {
	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (code, name, contact_person, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, name, contact_person, phone, created_at
	`, code, name, contactPerson, phone).Scan(&sp.ID, &sp.Code, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &sp, nil
}
