package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

func newTestExpense(accountID, operationID string) *models.Expense {
	return &models.Expense{
		AccountID:   accountID,
		OperationID: operationID,
		Description: "Ração para gado",
		Supplier:    "Agropecuária Silva",
		Category:    "Ração",
		AgreedValue: decimal.RequireFromString("500.00"),
		DueDate:     time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "Maria",
		Status:      models.ExpenseStatusPending,
	}
}

func TestExpenseRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	exp := newTestExpense(account.ID, "op-1")
	require.NoError(t, repo.Create(ctx, exp))
	require.NotEmpty(t, exp.ID)
	require.False(t, exp.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, "Ração para gado", got.Description)
	require.True(t, got.AgreedValue.Equal(decimal.RequireFromString("500.00")))
	require.Nil(t, got.InvoiceValue)
	require.Empty(t, got.Allocations)
}

func TestExpenseRepository_AllocationRoundtrip(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	exp := newTestExpense(account.ID, "op-1")
	exp.IsShared = true
	exp.Allocations = []models.ExpenseAllocation{
		{OperationID: "op-1", Percentage: 60, Value: decimal.RequireFromString("300.00")},
		{OperationID: "op-2", Percentage: 40, Value: decimal.RequireFromString("200.00")},
	}
	require.NoError(t, repo.Create(ctx, exp))

	got, err := repo.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	require.True(t, got.IsShared)
	require.Len(t, got.Allocations, 2)

	// Order matters; the home operation is the first allocation.
	require.Equal(t, "op-1", got.Allocations[0].OperationID)
	require.Equal(t, 60, got.Allocations[0].Percentage)
	require.True(t, got.Allocations[0].Value.Equal(decimal.RequireFromString("300.00")))
	require.Equal(t, "op-2", got.Allocations[1].OperationID)
	require.True(t, got.Allocations[1].Value.Equal(decimal.RequireFromString("200.00")))
}

func TestExpenseRepository_ListByStatus(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	pending := newTestExpense(account.ID, "op-1")
	require.NoError(t, repo.Create(ctx, pending))

	discrepancy := newTestExpense(account.ID, "op-1")
	discrepancy.Status = models.ExpenseStatusDiscrepancy
	require.NoError(t, repo.Create(ctx, discrepancy))

	paid := newTestExpense(account.ID, "op-1")
	paid.Status = models.ExpenseStatusPaid
	require.NoError(t, repo.Create(ctx, paid))

	queue, err := repo.ListByStatus(ctx, account.ID,
		models.ExpenseStatusPending, models.ExpenseStatusDiscrepancy)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	for _, exp := range queue {
		require.NotEqual(t, models.ExpenseStatusPaid, exp.Status)
	}
}

func TestExpenseRepository_ListByDateRange(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	exp := newTestExpense(account.ID, "op-1")
	require.NoError(t, repo.Create(ctx, exp))

	now := time.Now().UTC()
	inRange, err := repo.ListByDateRange(ctx, account.ID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, inRange, 1)

	outOfRange, err := repo.ListByDateRange(ctx, account.ID, now.AddDate(0, -2, 0), now.AddDate(0, -1, 0))
	require.NoError(t, err)
	require.Empty(t, outOfRange)
}

func TestExpenseRepository_Update(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	exp := newTestExpense(account.ID, "op-1")
	require.NoError(t, repo.Create(ctx, exp))

	invoice := decimal.RequireFromString("480.00")
	exp.InvoiceValue = &invoice
	exp.InvoiceNumber = "NF-1234"
	exp.Status = models.ExpenseStatusDiscrepancy
	exp.VerificationNotes = "difference of 20.00 between agreed and invoice value"
	require.NoError(t, repo.Update(ctx, exp))

	got, err := repo.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	require.NotNil(t, got.InvoiceValue)
	require.True(t, got.InvoiceValue.Equal(invoice))
	require.Equal(t, "NF-1234", got.InvoiceNumber)
	require.Equal(t, models.ExpenseStatusDiscrepancy, got.Status)

	t.Run("unknown id is an error", func(t *testing.T) {
		missing := newTestExpense(account.ID, "op-1")
		missing.ID = "no-such-expense"
		require.Error(t, repo.Update(ctx, missing))
	})
}

func TestExpenseRepository_DeleteCascadesAllocations(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewExpenseRepository(tx)

	exp := newTestExpense(account.ID, "op-1")
	exp.IsShared = true
	exp.Allocations = []models.ExpenseAllocation{
		{OperationID: "op-1", Percentage: 50, Value: decimal.RequireFromString("250.00")},
		{OperationID: "op-2", Percentage: 50, Value: decimal.RequireFromString("250.00")},
	}
	require.NoError(t, repo.Create(ctx, exp))
	require.NoError(t, repo.Delete(ctx, exp.ID))

	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM expense_allocations WHERE expense_id = $1`, exp.ID,
	).Scan(&count)
	require.NoError(t, err)
	require.Zero(t, count)
}
