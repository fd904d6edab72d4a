package report

import (
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// OperationReport is one operation's row in a monthly report.
type OperationReport struct {
	OperationID   string          `json:"operationId"`
	OperationName string          `json:"operationName"`
	Total         decimal.Decimal `json:"totalExpenses"`
	Paid          decimal.Decimal `json:"totalPaid"`
	Pending       decimal.Decimal `json:"totalPending"`
	ExpenseCount  int             `json:"expenseCount"`
}

// MonthlyReport aggregates a calendar month of expenses per operation.
type MonthlyReport struct {
	Month         time.Month        `json:"month"`
	Year          int               `json:"year"`
	Operations    []OperationReport `json:"operations"`
	TotalExpenses decimal.Decimal   `json:"totalExpenses"`
	TotalPaid     decimal.Decimal   `json:"totalPaid"`
	TotalPending  decimal.Decimal   `json:"totalPending"`
	ExpenseCount  int               `json:"expenseCount"`
}

// BuildMonthlyReport computes the report for one calendar month. Per-operation
// rows use allocation-aware contributions; the month totals use the coarse
// full-agreed-value sum of MonthlyTotal. Operations with no spend in the
// month are omitted.
func BuildMonthlyReport(operations []models.Operation, expenses []models.Expense, month time.Month, year int) MonthlyReport {
	monthExpenses := make([]models.Expense, 0, len(expenses))
	for _, exp := range expenses {
		if InMonth(exp, month, year) {
			monthExpenses = append(monthExpenses, exp)
		}
	}

	rep := MonthlyReport{
		Month:         month,
		Year:          year,
		TotalExpenses: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
		ExpenseCount:  len(monthExpenses),
	}

	for _, op := range operations {
		row := OperationReport{
			OperationID:   op.ID,
			OperationName: op.Name,
			Total:         decimal.Zero,
			Paid:          decimal.Zero,
			Pending:       decimal.Zero,
		}
		for _, exp := range monthExpenses {
			contribution := OperationContribution(op.ID, exp)
			if contribution.IsZero() {
				continue
			}
			row.Total = row.Total.Add(contribution)
			if exp.Status == models.ExpenseStatusPaid {
				row.Paid = row.Paid.Add(contribution)
			} else {
				row.Pending = row.Pending.Add(contribution)
			}
			row.ExpenseCount++
		}
		if row.Total.IsPositive() {
			rep.Operations = append(rep.Operations, row)
		}
	}

	for _, exp := range monthExpenses {
		rep.TotalExpenses = rep.TotalExpenses.Add(exp.AgreedValue)
		if exp.Status == models.ExpenseStatusPaid {
			rep.TotalPaid = rep.TotalPaid.Add(exp.AgreedValue)
		}
	}
	rep.TotalPending = rep.TotalExpenses.Sub(rep.TotalPaid)

	return rep
}
