package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// newTestAccount creates an account inside the test transaction.
func newTestAccount(t *testing.T, db database.PGXDB) *models.Account {
	t.Helper()
	account := &models.Account{Name: "Fazenda Teste", PlanID: "professional"}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), account))
	return account
}

func TestSectorRepository_CreateAndList(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewSectorRepository(tx)

	sector := &models.Sector{
		AccountID:   account.ID,
		Name:        "Pecuária",
		Description: "Área de gado",
		Color:       "#2E7D32",
		Icon:        "cow",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, sector))
	require.NotEmpty(t, sector.ID)
	require.False(t, sector.CreatedAt.IsZero())

	sectors, err := repo.ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, sectors, 1)
	require.Equal(t, "Pecuária", sectors[0].Name)
	require.True(t, sectors[0].IsActive)
}

func TestSectorRepository_GetByID(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewSectorRepository(tx)

	sector := &models.Sector{AccountID: account.ID, Name: "Agricultura", IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))

	got, err := repo.GetByID(ctx, sector.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sector.Name, got.Name)

	t.Run("missing sector is nil, not an error", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "no-such-sector")
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestSectorRepository_DeleteLeavesOperationsDangling(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	sectorRepo := NewSectorRepository(tx)
	opRepo := NewOperationRepository(tx)

	sector := &models.Sector{AccountID: account.ID, Name: "Pecuária", IsActive: true}
	require.NoError(t, sectorRepo.Create(ctx, sector))

	op := &models.Operation{AccountID: account.ID, SectorID: sector.ID, Name: "Gado de Corte", IsActive: true}
	require.NoError(t, opRepo.Create(ctx, op))

	require.NoError(t, sectorRepo.Delete(ctx, sector.ID))

	// Operation survives with its sector reference dangling.
	kept, err := opRepo.GetByID(ctx, op.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	require.Equal(t, sector.ID, kept.SectorID)

	gone, err := sectorRepo.GetByID(ctx, sector.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestSectorRepository_Update(t *testing.T) {
	t.Parallel()
	tx := database.TestTx(t)
	ctx := context.Background()
	account := newTestAccount(t, tx)
	repo := NewSectorRepository(tx)

	sector := &models.Sector{AccountID: account.ID, Name: "Pecuária", IsActive: true}
	require.NoError(t, repo.Create(ctx, sector))

	sector.Name = "Pecuária Leiteira"
	sector.IsActive = false
	require.NoError(t, repo.Update(ctx, sector))

	got, err := repo.GetByID(ctx, sector.ID)
	require.NoError(t, err)
	require.Equal(t, "Pecuária Leiteira", got.Name)
	require.False(t, got.IsActive)

	t.Run("unknown id is an error", func(t *testing.T) {
		missing := &models.Sector{ID: "no-such-sector", AccountID: account.ID, Name: "Pecuária"}
		require.Error(t, repo.Update(ctx, missing))
	})
}
