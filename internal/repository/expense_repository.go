package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// ExpenseRepository handles expense database operations. Allocations of
// shared expenses live in the expense_allocations child table; callers that
// need atomicity across both tables pass a transaction as the PGXDB.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, account_id, operation_id, description, supplier, category,
	agreed_value, invoice_value, invoice_number, due_date, created_by, status, notes,
	payment_date, verified_by, verification_notes, is_shared, created_at`

// Create adds a new expense and its allocations.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.Status == "" {
		expense.Status = models.ExpenseStatusPending
	}
	expense.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (id, account_id, operation_id, description, supplier, category,
			agreed_value, invoice_value, invoice_number, due_date, created_by, status, notes,
			payment_date, verified_by, verification_notes, is_shared)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`, expense.ID, expense.AccountID, expense.OperationID, expense.Description,
		expense.Supplier, expense.Category, expense.AgreedValue, expense.InvoiceValue,
		expense.InvoiceNumber, expense.DueDate, expense.CreatedBy, expense.Status,
		expense.Notes, expense.PaymentDate, expense.VerifiedBy, expense.VerificationNotes,
		expense.IsShared,
	).Scan(&expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	if err := r.replaceAllocations(ctx, expense.ID, expense.Allocations); err != nil {
		return err
	}
	return nil
}

// GetByID retrieves an expense by ID, including its allocations.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	var exp models.Expense
	err := r.db.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id,
	).Scan(scanTargets(&exp)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.attachAllocations(ctx, []*models.Expense{&exp}); err != nil {
		return nil, err
	}
	return &exp, nil
}

// ListByAccount retrieves all expenses for an account, newest first.
func (r *ExpenseRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return r.collectWithAllocations(ctx, rows)
}

// ListByStatus retrieves the account's expenses with any of the given
// statuses. The verification queue lists pending and discrepancy.
func (r *ExpenseRepository) ListByStatus(ctx context.Context, accountID string, statuses ...string) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1 AND status = ANY($2)
		 ORDER BY due_date, created_at`, accountID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by status: %w", err)
	}
	defer rows.Close()

	return r.collectWithAllocations(ctx, rows)
}

// ListByDateRange retrieves the account's expenses created within
// [startDate, endDate).
func (r *ExpenseRepository) ListByDateRange(ctx context.Context, accountID string, startDate, endDate time.Time) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE account_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at DESC, id DESC`, accountID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by date range: %w", err)
	}
	defer rows.Close()

	return r.collectWithAllocations(ctx, rows)
}

// Update modifies an existing expense and replaces its allocations.
func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET
			operation_id = $2,
			description = $3,
			supplier = $4,
			category = $5,
			agreed_value = $6,
			invoice_value = $7,
			invoice_number = $8,
			due_date = $9,
			status = $10,
			notes = $11,
			payment_date = $12,
			verified_by = $13,
			verification_notes = $14,
			is_shared = $15
		WHERE id = $1
	`, expense.ID, expense.OperationID, expense.Description, expense.Supplier,
		expense.Category, expense.AgreedValue, expense.InvoiceValue, expense.InvoiceNumber,
		expense.DueDate, expense.Status, expense.Notes, expense.PaymentDate,
		expense.VerifiedBy, expense.VerificationNotes, expense.IsShared)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s not found", expense.ID)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM expense_allocations WHERE expense_id = $1`, expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense allocations: %w", err)
	}
	return r.replaceAllocations(ctx, expense.ID, expense.Allocations)
}

// Delete removes an expense by ID. Allocations cascade with it.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) replaceAllocations(ctx context.Context, expenseID string, allocations []models.ExpenseAllocation) error {
	for i, a := range allocations {
		_, err := r.db.Exec(ctx, `
			INSERT INTO expense_allocations (expense_id, position, operation_id, percentage, value)
			VALUES ($1, $2, $3, $4, $5)
		`, expenseID, i, a.OperationID, a.Percentage, a.Value)
		if err != nil {
			return fmt.Errorf("failed to insert expense allocation: %w", err)
		}
	}
	return nil
}

// attachAllocations loads the allocation lists for the shared expenses in
// the slice, in stored order.
func (r *ExpenseRepository) attachAllocations(ctx context.Context, expenses []*models.Expense) error {
	ids := make([]string, 0, len(expenses))
	byID := make(map[string]*models.Expense, len(expenses))
	for _, exp := range expenses {
		if exp.IsShared {
			ids = append(ids, exp.ID)
			byID[exp.ID] = exp
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT expense_id, operation_id, percentage, value
		FROM expense_allocations
		WHERE expense_id = ANY($1)
		ORDER BY expense_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query expense allocations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var a models.ExpenseAllocation
		if err := rows.Scan(&expenseID, &a.OperationID, &a.Percentage, &a.Value); err != nil {
			return fmt.Errorf("failed to scan expense allocation: %w", err)
		}
		if exp := byID[expenseID]; exp != nil {
			exp.Allocations = append(exp.Allocations, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating expense allocations: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) collectWithAllocations(ctx context.Context, rows pgx.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(scanTargets(&exp)...); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	rows.Close()

	ptrs := make([]*models.Expense, len(expenses))
	for i := range expenses {
		ptrs[i] = &expenses[i]
	}
	if err := r.attachAllocations(ctx, ptrs); err != nil {
		return nil, err
	}
	return expenses, nil
}

func scanTargets(exp *models.Expense) []any {
	return []any{
		&exp.ID, &exp.AccountID, &exp.OperationID, &exp.Description, &exp.Supplier,
		&exp.Category, &exp.AgreedValue, &exp.InvoiceValue, &exp.InvoiceNumber,
		&exp.DueDate, &exp.CreatedBy, &exp.Status, &exp.Notes, &exp.PaymentDate,
		&exp.VerifiedBy, &exp.VerificationNotes, &exp.IsShared, &exp.CreatedAt,
	}
}
