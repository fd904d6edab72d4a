// Package service orchestrates the core engines over the persistence layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/allocation"
	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/logger"
	"gitlab.com/agrofinance/agrofinance/internal/models"
	"gitlab.com/agrofinance/agrofinance/internal/reconcile"
	"gitlab.com/agrofinance/agrofinance/internal/report"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
)

// ExpenseService coordinates expense creation, reconciliation and reporting.
// All multi-row writes run inside a transaction so a persistence failure
// never leaves a partial update behind.
type ExpenseService struct {
	db database.DB
}

// NewExpenseService creates an ExpenseService on top of a connection pool
// (or a transaction, in tests).
func NewExpenseService(db database.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// CreateExpenseInput is the user-supplied payload for a new expense. For a
// shared expense Selection carries the chosen operations and percentages;
// allocation values are resolved here, never accepted from the caller.
type CreateExpenseInput struct {
	AccountID   string
	OperationID string
	Description string
	Supplier    string
	Category    string
	AgreedValue decimal.Decimal
	DueDate     time.Time
	CreatedBy   string
	Notes       string
	IsShared    bool
	Selection   allocation.Selection
}

// CreateExpense validates the input, resolves allocations for shared
// expenses and persists the result atomically.
func (s *ExpenseService) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	var allocations []models.ExpenseAllocation
	if in.IsShared {
		if err := allocation.Validate(in.Selection); err != nil {
			return nil, err
		}
		allocations = allocation.ResolveValues(in.Selection, in.AgreedValue)
	}

	expense, err := models.NewExpense(models.NewExpenseInput{
		OperationID: in.OperationID,
		Description: in.Description,
		Supplier:    in.Supplier,
		Category:    in.Category,
		AgreedValue: in.AgreedValue,
		DueDate:     in.DueDate,
		CreatedBy:   in.CreatedBy,
		Notes:       in.Notes,
		IsShared:    in.IsShared,
		Allocations: allocations,
	})
	if err != nil {
		return nil, err
	}
	expense.AccountID = in.AccountID

	if err := s.inTx(ctx, func(repo *repository.ExpenseRepository) error {
		return repo.Create(ctx, expense)
	}); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("expense_id", expense.ID).
		Str("operation_id", expense.OperationID).
		Bool("shared", expense.IsShared).
		Str("agreed_value", expense.AgreedValue.StringFixed(2)).
		Msg("Expense created")
	return expense, nil
}

// SetInvoiceValue records the invoice details ahead of verification.
func (s *ExpenseService) SetInvoiceValue(ctx context.Context, expenseID string, value decimal.Decimal, invoiceNumber string) (*models.Expense, error) {
	return s.transition(ctx, expenseID, func(expense *models.Expense) error {
		return reconcile.SetInvoiceValue(expense, value, invoiceNumber)
	})
}

// VerifyExpense runs invoice verification. The expense must already carry an
// invoice value; reconcile.ErrMissingInvoiceValue is returned otherwise so
// the caller can collect it and retry.
func (s *ExpenseService) VerifyExpense(ctx context.Context, expenseID, verifiedBy string) (*models.Expense, error) {
	return s.transition(ctx, expenseID, func(expense *models.Expense) error {
		return reconcile.Verify(expense, verifiedBy)
	})
}

// MarkExpensePaid confirms payment on any non-paid expense.
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, expenseID string) (*models.Expense, error) {
	return s.transition(ctx, expenseID, func(expense *models.Expense) error {
		return reconcile.MarkPaid(expense, time.Now())
	})
}

// PendingVerification lists the account's expenses awaiting a verification
// decision: status pending or discrepancy.
func (s *ExpenseService) PendingVerification(ctx context.Context, accountID string) ([]models.Expense, error) {
	repo := repository.NewExpenseRepository(s.db)
	return repo.ListByStatus(ctx, accountID, models.ExpenseStatusPending, models.ExpenseStatusDiscrepancy)
}

// MonthlyReport builds the aggregated report for one calendar month,
// including the change against the previous month.
func (s *ExpenseService) MonthlyReport(ctx context.Context, accountID string, month time.Month, year int) (report.MonthlyReport, decimal.Decimal, error) {
	expenses, err := repository.NewExpenseRepository(s.db).ListByAccount(ctx, accountID)
	if err != nil {
		return report.MonthlyReport{}, decimal.Zero, err
	}
	operations, err := repository.NewOperationRepository(s.db).ListByAccount(ctx, accountID)
	if err != nil {
		return report.MonthlyReport{}, decimal.Zero, err
	}

	rep := report.BuildMonthlyReport(operations, expenses, month, year)

	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	previousTotal := report.MonthlyTotal(expenses, prev.Month(), prev.Year())
	change := report.PercentChangeVsPreviousMonth(rep.TotalExpenses, previousTotal)

	return rep, change, nil
}

// transition loads the expense, applies a state-machine step and persists
// the result in one transaction. On any error no state is changed.
func (s *ExpenseService) transition(ctx context.Context, expenseID string, step func(*models.Expense) error) (*models.Expense, error) {
	var result *models.Expense
	err := s.inTx(ctx, func(repo *repository.ExpenseRepository) error {
		expense, err := repo.GetByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if err := step(expense); err != nil {
			return err
		}
		if err := repo.Update(ctx, expense); err != nil {
			return err
		}
		result = expense
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("expense_id", result.ID).
		Str("status", result.Status).
		Msg("Expense status updated")
	return result, nil
}

func (s *ExpenseService) inTx(ctx context.Context, fn func(*repository.ExpenseRepository) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repository.NewExpenseRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
