// Package repository implements PostgreSQL persistence for the domain
// entities, scoped by account. Entity ids are generated here so callers
// treat them as opaque server-assigned values.
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// AccountRepository handles account database operations.
type AccountRepository struct {
	db database.PGXDB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db database.PGXDB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create adds a new account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	account.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, `
		INSERT INTO accounts (id, name, plan_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, account.ID, account.Name, account.PlanID).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	err := r.db.QueryRow(ctx, `
		SELECT id, name, plan_id, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id).Scan(&acc.ID, &acc.Name, &acc.PlanID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// GetOrCreateDefault returns the first account, creating one when the
// database is empty. Single-tenant deployments boot through this.
func (r *AccountRepository) GetOrCreateDefault(ctx context.Context, name, planID string) (*models.Account, error) {
	var acc models.Account
	err := r.db.QueryRow(ctx, `
		SELECT id, name, plan_id, created_at, updated_at
		FROM accounts ORDER BY created_at LIMIT 1
	`).Scan(&acc.ID, &acc.Name, &acc.PlanID, &acc.CreatedAt, &acc.UpdatedAt)
	if err == nil {
		return &acc, nil
	}

	acc = models.Account{Name: name, PlanID: planID}
	if createErr := r.Create(ctx, &acc); createErr != nil {
		return nil, createErr
	}
	return &acc, nil
}

// UpdatePlan switches the account's subscription plan.
func (r *AccountRepository) UpdatePlan(ctx context.Context, id, planID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET plan_id = $2, updated_at = NOW() WHERE id = $1
	`, id, planID)
	if err != nil {
		return fmt.Errorf("failed to update account plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}
