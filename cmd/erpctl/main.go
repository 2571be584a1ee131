package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "erpctl",
		Short: "Back-office administration tool",
	}
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return pool, nil
}

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
			if err != nil {
				return fmt.Errorf("failed to list migrations: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no migration files in %s", dir)
			}
			sort.Strings(files)

			for _, f := range files {
				sql, err := os.ReadFile(f)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", f, err)
				}
				if _, err := pool.Exec(ctx, string(sql)); err != nil {
					return fmt.Errorf("migration %s failed: %w", filepath.Base(f), err)
				}
				log.WithField("file", filepath.Base(f)).Info("migration applied")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory holding .sql migration files")
	return cmd
}

// seedCmd loads a starter chart of accounts and a small demo catalog.
// Seeding is idempotent; existing codes are left untouched.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a starter chart of accounts and demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			accounts := []struct {
				code, name, typ string
			}{
				{"1000", "Cash", "asset"},
				{"1100", "Accounts Receivable", "asset"},
				{"1200", "Inventory", "asset"},
				{"2000", "Accounts Payable", "liability"},
				{"3000", "Owner Equity", "equity"},
				{"4000", "Sales Revenue", "revenue"},
				{"5000", "Cost of Goods Sold", "expense"},
				{"6000", "Operating Expenses", "expense"},
			}
			for _, a := range accounts {
				_, err := pool.Exec(ctx, `
					INSERT INTO accounts (code, name, type)
					VALUES ($1, $2, $3)
					ON CONFLICT (code) DO NOTHING
				`, a.code, a.name, a.typ)
				if err != nil {
					return fmt.Errorf("failed to seed account %s: %w", a.code, err)
				}
			}

			products := []struct {
				code, name, price string
			}{
				{"SKU-001", "Standard Widget", "150.00"},
				{"SKU-002", "Premium Widget", "299.99"},
				{"SKU-003", "Service Hour", "850.00"},
			}
			for _, p := range products {
				_, err := pool.Exec(ctx, `
					INSERT INTO products (code, name, unit_price)
					VALUES ($1, $2, $3)
					ON CONFLICT (code) DO NOTHING
				`, p.code, p.name, p.price)
				if err != nil {
					return fmt.Errorf("failed to seed product %s: %w", p.code, err)
				}
			}

			_, err = pool.Exec(ctx, `
				INSERT INTO clients (code, name, email)
				VALUES ('CLI-001', 'Acme Retail SA de CV', 'compras@acme.example')
				ON CONFLICT (code) DO NOTHING
			`)
			if err != nil {
				return fmt.Errorf("failed to seed client: %w", err)
			}
			_, err = pool.Exec(ctx, `
				INSERT INTO suppliers (code, name, contact_person)
				VALUES ('SUP-001', 'Industrias del Norte', 'R. Morales')
				ON CONFLICT (code) DO NOTHING
			`)
			if err != nil {
				return fmt.Errorf("failed to seed supplier: %w", err)
			}
			_, err = pool.Exec(ctx, `
				INSERT INTO warehouses (code, name, location)
				VALUES ('WH-001', 'Almacén Central', 'Monterrey')
				ON CONFLICT (code) DO NOTHING
			`)
			if err != nil {
				return fmt.Errorf("failed to seed warehouse: %w", err)
			}

			log.Info("seed complete")
			return nil
		},
	}
}
