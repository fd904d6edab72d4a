package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sharedExpense(agreed string, createdAt time.Time, allocations ...models.ExpenseAllocation) models.Expense {
	return models.Expense{
		ID:          "exp-shared",
		OperationID: allocations[0].OperationID,
		Description: "Adubo compartilhado",
		AgreedValue: dec(agreed),
		Status:      models.ExpenseStatusPending,
		CreatedAt:   createdAt,
		IsShared:    true,
		Allocations: allocations,
	}
}

func simpleExpense(operationID, agreed string, createdAt time.Time) models.Expense {
	return models.Expense{
		ID:          "exp-" + operationID,
		OperationID: operationID,
		Description: "Despesa",
		AgreedValue: dec(agreed),
		Status:      models.ExpenseStatusPending,
		CreatedAt:   createdAt,
	}
}

func TestTotalForOperation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("shared expense contributes per allocation", func(t *testing.T) {
		t.Parallel()
		expenses := []models.Expense{
			sharedExpense("100.00", now,
				models.ExpenseAllocation{OperationID: "op-a", Percentage: 60, Value: dec("60.00")},
				models.ExpenseAllocation{OperationID: "op-b", Percentage: 40, Value: dec("40.00")},
			),
		}

		require.True(t, TotalForOperation("op-a", expenses).Equal(dec("60.00")))
		require.True(t, TotalForOperation("op-b", expenses).Equal(dec("40.00")))
		require.True(t, TotalForOperation("op-c", expenses).IsZero())
	})

	t.Run("home operation of a shared expense never double counts", func(t *testing.T) {
		t.Parallel()
		// op-a is both the home operation and an allocation target.
		expenses := []models.Expense{
			sharedExpense("100.00", now,
				models.ExpenseAllocation{OperationID: "op-a", Percentage: 60, Value: dec("60.00")},
				models.ExpenseAllocation{OperationID: "op-b", Percentage: 40, Value: dec("40.00")},
			),
		}
		require.True(t, TotalForOperation("op-a", expenses).Equal(dec("60.00")))
	})

	t.Run("non-shared expense contributes its full agreed value", func(t *testing.T) {
		t.Parallel()
		expenses := []models.Expense{
			simpleExpense("op-a", "150.00", now),
			simpleExpense("op-b", "10.00", now),
		}
		require.True(t, TotalForOperation("op-a", expenses).Equal(dec("150.00")))
	})
}

func TestTotalForSector(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	operations := []models.Operation{
		{ID: "op-a", SectorID: "sec-1"},
		{ID: "op-b", SectorID: "sec-1"},
		{ID: "op-c", SectorID: "sec-2"},
		{ID: "op-d", SectorID: ""}, // dangling sector reference
	}
	expenses := []models.Expense{
		simpleExpense("op-a", "100.00", now),
		simpleExpense("op-b", "50.00", now),
		simpleExpense("op-c", "25.00", now),
		simpleExpense("op-d", "10.00", now),
	}

	require.True(t, TotalForSector("sec-1", operations, expenses).Equal(dec("150.00")))
	require.True(t, TotalForSector("sec-2", operations, expenses).Equal(dec("25.00")))
	require.True(t, TotalForSector("sec-gone", operations, expenses).IsZero())
}

func TestMonthlyTotal(t *testing.T) {
	t.Parallel()

	august := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
	july := time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC)

	t.Run("filters by creation month", func(t *testing.T) {
		t.Parallel()
		expenses := []models.Expense{
			simpleExpense("op-a", "100.00", august),
			simpleExpense("op-b", "40.00", july),
		}
		require.True(t, MonthlyTotal(expenses, time.August, 2026).Equal(dec("100.00")))
		require.True(t, MonthlyTotal(expenses, time.July, 2026).Equal(dec("40.00")))
		require.True(t, MonthlyTotal(expenses, time.August, 2025).IsZero())
	})

	t.Run("shared expenses count once at full value", func(t *testing.T) {
		t.Parallel()
		expenses := []models.Expense{
			sharedExpense("100.00", august,
				models.ExpenseAllocation{OperationID: "op-a", Percentage: 60, Value: dec("60.00")},
				models.ExpenseAllocation{OperationID: "op-b", Percentage: 40, Value: dec("40.00")},
			),
		}
		require.True(t, MonthlyTotal(expenses, time.August, 2026).Equal(dec("100.00")))
	})
}

func TestDistributionPercentage(t *testing.T) {
	t.Parallel()

	require.True(t, DistributionPercentage(dec("60.00"), dec("100.00")).Equal(dec("60")))
	require.True(t, DistributionPercentage(dec("60.00"), decimal.Zero).IsZero(), "zero month total yields zero, not a division error")
}

func TestPercentChangeVsPreviousMonth(t *testing.T) {
	t.Parallel()

	require.True(t, PercentChangeVsPreviousMonth(dec("150.00"), dec("100.00")).Equal(dec("50")))
	require.True(t, PercentChangeVsPreviousMonth(dec("50.00"), dec("100.00")).Equal(dec("-50")))
	require.True(t, PercentChangeVsPreviousMonth(dec("100.00"), decimal.Zero).IsZero())
}
