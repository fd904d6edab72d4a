package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// isNoRows reports whether the query found no matching row.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// OperationRepository handles operation database operations.
type OperationRepository struct {
	db database.PGXDB
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(db database.PGXDB) *OperationRepository {
	return &OperationRepository{db: db}
}

// Create adds a new operation.
func (r *OperationRepository) Create(ctx context.Context, operation *models.Operation) error {
	operation.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, `
		INSERT INTO operations (id, account_id, sector_id, name, description, color, icon, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, operation.ID, operation.AccountID, operation.SectorID, operation.Name,
		operation.Description, operation.Color, operation.Icon, operation.IsActive,
	).Scan(&operation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	return nil
}

// GetByID retrieves an operation by ID. Returns (nil, nil) when the
// operation does not exist; expense references are weak.
func (r *OperationRepository) GetByID(ctx context.Context, id string) (*models.Operation, error) {
	var op models.Operation
	err := r.db.QueryRow(ctx, `
		SELECT id, account_id, sector_id, name, description, color, icon, is_active, created_at
		FROM operations WHERE id = $1
	`, id).Scan(&op.ID, &op.AccountID, &op.SectorID, &op.Name, &op.Description, &op.Color, &op.Icon, &op.IsActive, &op.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return &op, nil
}

// ListByAccount retrieves all operations for an account.
func (r *OperationRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Operation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, sector_id, name, description, color, icon, is_active, created_at
		FROM operations
		WHERE account_id = $1
		ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// CountByAccount returns the number of operations an account has. The
// subscription gate compares this against the plan's operation limit.
func (r *OperationRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM operations WHERE account_id = $1
	`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count operations: %w", err)
	}
	return count, nil
}

// Update modifies an existing operation.
func (r *OperationRepository) Update(ctx context.Context, operation *models.Operation) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE operations SET
			sector_id = $2,
			name = $3,
			description = $4,
			color = $5,
			icon = $6,
			is_active = $7
		WHERE id = $1
	`, operation.ID, operation.SectorID, operation.Name, operation.Description,
		operation.Color, operation.Icon, operation.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("operation %s not found", operation.ID)
	}
	return nil
}

// Delete removes an operation by ID. Expenses referencing it are kept; their
// operation_id dangles.
func (r *OperationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	return nil
}

func scanOperations(rows pgx.Rows) ([]models.Operation, error) {
	var operations []models.Operation
	for rows.Next() {
		var op models.Operation
		if err := rows.Scan(&op.ID, &op.AccountID, &op.SectorID, &op.Name, &op.Description, &op.Color, &op.Icon, &op.IsActive, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}
	return operations, nil
}
