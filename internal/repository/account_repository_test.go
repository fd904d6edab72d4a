package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/agrofinance/agrofinance/internal/database"
)

func TestAccountRepository_GetOrCreateDefault(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewAccountRepository(tx)

	created, err := repo.GetOrCreateDefault(ctx, "Minha Fazenda", "free")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Minha Fazenda", created.Name)
	require.Equal(t, "free", created.PlanID)

	// A second call finds the existing account instead of creating another.
	again, err := repo.GetOrCreateDefault(ctx, "Outra Fazenda", "premium")
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)
	require.Equal(t, "Minha Fazenda", again.Name)
}

func TestAccountRepository_UpdatePlan(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewAccountRepository(tx)

	account := newTestAccount(t, tx)
	require.NoError(t, repo.UpdatePlan(ctx, account.ID, "premium"))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "premium", got.PlanID)

	require.Error(t, repo.UpdatePlan(ctx, "no-such-account", "premium"))
}
