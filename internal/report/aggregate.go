// Package report computes derived totals and monthly report figures from
// caller-supplied entities. Nothing in this package mutates an entity.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

var hundred = decimal.NewFromInt(100)

// OperationContribution returns what a single expense contributes to an
// operation: the allocation value for a shared expense, the full agreed
// value for a non-shared expense homed on the operation, zero otherwise.
// For shared expenses the allocation list is authoritative; the home
// operation id never double-counts.
func OperationContribution(operationID string, expense models.Expense) decimal.Decimal {
	if expense.IsShared {
		for _, a := range expense.Allocations {
			if a.OperationID == operationID {
				return a.Value
			}
		}
		return decimal.Zero
	}
	if expense.OperationID == operationID {
		return expense.AgreedValue
	}
	return decimal.Zero
}

// TotalForOperation sums every expense's contribution to the operation.
func TotalForOperation(operationID string, expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(OperationContribution(operationID, exp))
	}
	return total
}

// TotalForSector sums TotalForOperation over every operation in the sector.
// Operations with a dangling sector reference simply never match.
func TotalForSector(sectorID string, operations []models.Operation, expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, op := range operations {
		if op.SectorID == sectorID {
			total = total.Add(TotalForOperation(op.ID, expenses))
		}
	}
	return total
}

// MonthlyTotal sums the full agreed value of every expense created in the
// given calendar month. Shared expenses are not split here: the monthly
// aggregate counts each expense once at full value, which is coarser than
// the per-operation totals.
func MonthlyTotal(expenses []models.Expense, month time.Month, year int) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		if InMonth(exp, month, year) {
			total = total.Add(exp.AgreedValue)
		}
	}
	return total
}

// InMonth reports whether the expense was created in the given calendar
// month. Filtering is by creation date, not due date.
func InMonth(expense models.Expense, month time.Month, year int) bool {
	return expense.CreatedAt.Month() == month && expense.CreatedAt.Year() == year
}

// DistributionPercentage returns operationTotal as a percentage of
// monthTotal, or zero when the month total is zero.
func DistributionPercentage(operationTotal, monthTotal decimal.Decimal) decimal.Decimal {
	if monthTotal.IsZero() {
		return decimal.Zero
	}
	return operationTotal.Div(monthTotal).Mul(hundred)
}

// PercentChangeVsPreviousMonth returns the relative change between two
// month totals, or zero when there is no previous-month baseline.
func PercentChangeVsPreviousMonth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
