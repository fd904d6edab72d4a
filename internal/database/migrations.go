package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema. Sector and operation references
// are deliberately plain text columns, not foreign keys: deleting a sector
// or an operation leaves dangling ids behind rather than cascading.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			plan_id TEXT NOT NULL DEFAULT 'free',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sectors (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			sector_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			operation_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			supplier TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			agreed_value DECIMAL(12, 2) NOT NULL,
			invoice_value DECIMAL(12, 2),
			invoice_number TEXT NOT NULL DEFAULT '',
			due_date DATE NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT NOT NULL DEFAULT '',
			payment_date TIMESTAMPTZ,
			verified_by TEXT NOT NULL DEFAULT '',
			verification_notes TEXT NOT NULL DEFAULT '',
			is_shared BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expense_allocations (
			expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			operation_id TEXT NOT NULL,
			percentage INTEGER NOT NULL CHECK (percentage >= 0 AND percentage <= 100),
			value DECIMAL(12, 2) NOT NULL,
			PRIMARY KEY (expense_id, position)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sectors_account_id ON sectors(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_account_id ON operations(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_account_id ON expenses(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_operation_id ON expenses(operation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_status ON expenses(status)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_expense_allocations_operation_id ON expense_allocations(operation_id)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
