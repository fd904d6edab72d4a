package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

func newTestOperation(t *testing.T, db database.PGXDB, accountID, name string) *models.Operation {
	t.Helper()
	op := &models.Operation{AccountID: accountID, SectorID: "sec-1", Name: name, IsActive: true}
	require.NoError(t, NewOperationRepository(db).Create(context.Background(), op))
	return op
}

func TestOperationRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewOperationRepository(tx)

	op := &models.Operation{
		AccountID: account.ID,
		SectorID:  "sec-1",
		Name:      "Gado de Corte",
		Color:     "#2E7D32",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, op))
	require.NotEmpty(t, op.ID)

	got, err := repo.GetByID(ctx, op.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Gado de Corte", got.Name)
	require.Equal(t, "sec-1", got.SectorID)
}

func TestOperationRepository_GetByIDMissing(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)

	got, err := NewOperationRepository(tx).GetByID(context.Background(), "no-such-operation")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestOperationRepository_CountByAccount(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	other := newTestAccount(t, tx)
	repo := NewOperationRepository(tx)

	count, err := repo.CountByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	newTestOperation(t, tx, account.ID, "Gado de Corte")
	newTestOperation(t, tx, account.ID, "Soja")
	newTestOperation(t, tx, other.ID, "Milho")

	count, err = repo.CountByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestOperationRepository_UpdateAndList(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewOperationRepository(tx)

	op := newTestOperation(t, tx, account.ID, "Gado de Corte")
	op.Name = "Gado Leiteiro"
	op.IsActive = false
	require.NoError(t, repo.Update(ctx, op))

	ops, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, "Gado Leiteiro", ops[0].Name)
	require.False(t, ops[0].IsActive)

	t.Run("unknown id is an error", func(t *testing.T) {
		missing := &models.Operation{ID: "no-such-operation", AccountID: account.ID, Name: "Café"}
		require.Error(t, repo.Update(ctx, missing))
	})
}

func TestOperationRepository_DeleteKeepsExpenses(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	opRepo := NewOperationRepository(tx)
	expRepo := NewExpenseRepository(tx)

	op := newTestOperation(t, tx, account.ID, "Gado de Corte")
	exp := newTestExpense(account.ID, op.ID)
	require.NoError(t, expRepo.Create(ctx, exp))

	require.NoError(t, opRepo.Delete(ctx, op.ID))

	kept, err := expRepo.GetByID(ctx, exp.ID)
	require.NoError(t, err)
	require.Equal(t, op.ID, kept.OperationID, "expense keeps the dangling reference")
}
