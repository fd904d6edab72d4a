// Package reconcile governs the expense status state machine: invoice
// verification against the agreed value, and payment confirmation.
package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// ErrMissingInvoiceValue is returned by Verify when the expense has no
// invoice value yet. It is a recoverable precondition: the caller collects
// the value and retries.
var ErrMissingInvoiceValue = errors.New("invoice value not set")

// InvalidTransitionError reports a status transition the state machine does
// not allow.
type InvalidTransitionError struct {
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s expense with status %q", e.Action, e.From)
}

// Verify compares the invoice value against the agreed value and moves the
// expense to verified or discrepancy. Allowed from pending, and from
// discrepancy again after the invoice value has been corrected. On a
// mismatch the verification notes record the absolute difference.
func Verify(expense *models.Expense, verifiedBy string) error {
	switch expense.Status {
	case models.ExpenseStatusPending, models.ExpenseStatusDiscrepancy:
	default:
		return &InvalidTransitionError{From: expense.Status, Action: "verify"}
	}
	if expense.InvoiceValue == nil {
		return ErrMissingInvoiceValue
	}

	if expense.InvoiceValue.Equal(expense.AgreedValue) {
		expense.Status = models.ExpenseStatusVerified
		expense.VerifiedBy = verifiedBy
		expense.VerificationNotes = ""
		return nil
	}

	difference := expense.InvoiceValue.Sub(expense.AgreedValue).Abs()
	expense.Status = models.ExpenseStatusDiscrepancy
	expense.VerifiedBy = verifiedBy
	expense.VerificationNotes = fmt.Sprintf("difference of %s between agreed and invoice value", difference.StringFixed(2))
	return nil
}

// MarkPaid confirms payment and moves the expense to the terminal paid
// status. Allowed from any non-paid status: a discrepancy can be force-paid
// by an operator decision, it is never auto-resolved.
func MarkPaid(expense *models.Expense, paidAt time.Time) error {
	if expense.Status == models.ExpenseStatusPaid {
		return &InvalidTransitionError{From: expense.Status, Action: "pay"}
	}
	expense.Status = models.ExpenseStatusPaid
	expense.PaymentDate = &paidAt
	return nil
}

// SetInvoiceValue records the invoice details found on the supplier's
// document. Changing the value on a discrepancy expense sends it back to
// pending so the decision can be made again on the corrected numbers.
func SetInvoiceValue(expense *models.Expense, value decimal.Decimal, invoiceNumber string) error {
	if expense.Status == models.ExpenseStatusPaid {
		return &InvalidTransitionError{From: expense.Status, Action: "edit invoice value of"}
	}
	expense.InvoiceValue = &value
	if invoiceNumber != "" {
		expense.InvoiceNumber = invoiceNumber
	}
	if expense.Status == models.ExpenseStatusDiscrepancy {
		expense.Status = models.ExpenseStatusPending
		expense.VerificationNotes = ""
	}
	return nil
}
