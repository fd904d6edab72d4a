// Package allocation turns a user's selection of operations and relative
// percentages into a validated, value-resolved split of an expense.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// DefaultPercentage is assigned to a newly toggled operation when there is
// room for it.
const DefaultPercentage = 50

// ErrorKind classifies allocation failures.
type ErrorKind int

const (
	// SumNotHundred means the selection's percentages do not sum to 100.
	SumNotHundred ErrorKind = iota
	// TooFewOperations means a shared expense selects fewer than two operations.
	TooFewOperations
)

// Error reports an invalid selection. It is recoverable: the save is blocked
// until the selection is corrected.
type Error struct {
	Kind ErrorKind
	Sum  int
}

func (e *Error) Error() string {
	switch e.Kind {
	case SumNotHundred:
		return fmt.Sprintf("allocation percentages sum to %d, want 100", e.Sum)
	case TooFewOperations:
		return "shared expense needs at least two operations"
	default:
		return "invalid allocation"
	}
}

// Entry is one operation in a selection with its relative percentage.
type Entry struct {
	OperationID string
	Percentage  int
}

// Selection is the ordered set of operations an expense is split across.
// All functions in this package treat it as immutable and return a new slice.
type Selection []Entry

// Sum returns the total of all percentages in the selection.
func (s Selection) Sum() int {
	total := 0
	for _, e := range s {
		total += e.Percentage
	}
	return total
}

// Contains reports whether the selection includes the operation.
func (s Selection) Contains(operationID string) bool {
	for _, e := range s {
		if e.OperationID == operationID {
			return true
		}
	}
	return false
}

// ToggleOperation adds the operation with a default percentage when absent
// and removes it when present. A new entry gets min(remaining, 50), or 0
// when the selection is already fully assigned.
func ToggleOperation(s Selection, operationID string) Selection {
	if s.Contains(operationID) {
		out := make(Selection, 0, len(s)-1)
		for _, e := range s {
			if e.OperationID != operationID {
				out = append(out, e)
			}
		}
		return out
	}

	pct := 100 - s.Sum()
	if pct > DefaultPercentage {
		pct = DefaultPercentage
	}
	if pct < 0 {
		pct = 0
	}
	out := make(Selection, len(s), len(s)+1)
	copy(out, s)
	return append(out, Entry{OperationID: operationID, Percentage: pct})
}

// SetPercentage replaces the operation's percentage, clamped to [0,100].
// Other entries are not rebalanced. Unknown operations are left untouched.
func SetPercentage(s Selection, operationID string, percentage int) Selection {
	percentage = clampPercentage(percentage)
	out := make(Selection, len(s))
	copy(out, s)
	for i := range out {
		if out[i].OperationID == operationID {
			out[i].Percentage = percentage
		}
	}
	return out
}

// DistributeEqually assigns floor(100/N) to every entry and adds the
// remainder to the first, so the percentages always sum to exactly 100.
// Empty selections are returned unchanged.
func DistributeEqually(s Selection) Selection {
	n := len(s)
	if n == 0 {
		return s
	}
	base := 100 / n
	remainder := 100 - base*n
	out := make(Selection, n)
	copy(out, s)
	for i := range out {
		out[i].Percentage = base
	}
	out[0].Percentage += remainder
	return out
}

// Validate checks the shared-expense invariants: at least two operations and
// percentages summing to exactly 100.
func Validate(s Selection) error {
	if len(s) < 2 {
		return &Error{Kind: TooFewOperations}
	}
	if sum := s.Sum(); sum != 100 {
		return &Error{Kind: SumNotHundred, Sum: sum}
	}
	return nil
}

// ResolveValues produces one allocation per entry with
// value = agreedValue * percentage / 100, rounded half away from zero to
// cents. For a complete selection (percentages summing to 100) the rounding
// residue is pinned on the last entry so the values sum to the agreed value
// exactly.
func ResolveValues(s Selection, agreedValue decimal.Decimal) []models.ExpenseAllocation {
	if len(s) == 0 {
		return nil
	}
	complete := s.Sum() == 100
	out := make([]models.ExpenseAllocation, len(s))
	assigned := decimal.Zero
	for i, e := range s {
		value := agreedValue.
			Mul(decimal.NewFromInt(int64(e.Percentage))).
			Div(decimal.NewFromInt(100)).
			Round(2)
		if complete && i == len(s)-1 {
			value = agreedValue.Sub(assigned)
		}
		assigned = assigned.Add(value)
		out[i] = models.ExpenseAllocation{
			OperationID: e.OperationID,
			Percentage:  e.Percentage,
			Value:       value,
		}
	}
	return out
}

// FromAllocations rebuilds a selection from persisted allocations, for
// editing an existing shared expense.
func FromAllocations(allocations []models.ExpenseAllocation) Selection {
	out := make(Selection, len(allocations))
	for i, a := range allocations {
		out[i] = Entry{OperationID: a.OperationID, Percentage: a.Percentage}
	}
	return out
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
