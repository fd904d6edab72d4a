package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError reports a field-level constraint violation during entity
// construction. It is always recoverable: the caller surfaces Field and
// Message to the user and retries.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewExpenseInput carries the caller-supplied primitives for a new expense.
// Values are already normalized decimals; the constructor does no coercion.
type NewExpenseInput struct {
	OperationID string
	Description string
	Supplier    string
	Category    string
	AgreedValue decimal.Decimal
	DueDate     time.Time
	CreatedBy   string
	Notes       string
	IsShared    bool
	Allocations []ExpenseAllocation
}

// NewExpense validates the input and builds a pending expense. ID and
// CreatedAt are assigned by the persistence layer.
func NewExpense(in NewExpenseInput) (*Expense, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, &ValidationError{Field: "description", Message: "must not be empty"}
	}
	if in.AgreedValue.LessThanOrEqual(decimal.Zero) {
		return nil, &ValidationError{Field: "agreedValue", Message: "must be greater than zero"}
	}
	if in.DueDate.IsZero() {
		return nil, &ValidationError{Field: "dueDate", Message: "must be set"}
	}
	if !in.IsShared && in.OperationID == "" {
		return nil, &ValidationError{Field: "operationId", Message: "must be set"}
	}
	if in.IsShared {
		if err := validateAllocations(in.Allocations); err != nil {
			return nil, err
		}
	} else if len(in.Allocations) > 0 {
		return nil, &ValidationError{Field: "allocations", Message: "only allowed on shared expenses"}
	}

	exp := &Expense{
		OperationID: in.OperationID,
		Description: strings.TrimSpace(in.Description),
		Supplier:    strings.TrimSpace(in.Supplier),
		Category:    in.Category,
		AgreedValue: in.AgreedValue,
		DueDate:     in.DueDate,
		CreatedBy:   in.CreatedBy,
		Status:      ExpenseStatusPending,
		Notes:       strings.TrimSpace(in.Notes),
		IsShared:    in.IsShared,
		Allocations: in.Allocations,
	}
	if exp.Supplier == "" {
		exp.Supplier = DefaultSupplier
	}
	if exp.Category == "" {
		exp.Category = DefaultCategory
	}
	if in.IsShared && exp.OperationID == "" {
		// The first allocation hosts a shared expense with no explicit home.
		exp.OperationID = in.Allocations[0].OperationID
	}
	return exp, nil
}

func validateAllocations(allocations []ExpenseAllocation) error {
	if len(allocations) < 2 {
		return &ValidationError{Field: "allocations", Message: "shared expense needs at least two operations"}
	}
	sum := 0
	for _, a := range allocations {
		if a.OperationID == "" {
			return &ValidationError{Field: "allocations", Message: "allocation missing operation"}
		}
		if a.Percentage < 0 || a.Percentage > 100 {
			return &ValidationError{Field: "allocations", Message: "percentage out of range"}
		}
		sum += a.Percentage
	}
	if sum != 100 {
		return &ValidationError{Field: "allocations", Message: fmt.Sprintf("percentages sum to %d, want 100", sum)}
	}
	return nil
}

// NewSector validates and builds a sector.
func NewSector(accountID, name, description, color, icon string) (*Sector, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if len(name) > MaxNameLength {
		return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)}
	}
	return &Sector{
		AccountID:   accountID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       color,
		Icon:        icon,
		IsActive:    true,
	}, nil
}

// NewOperation validates and builds an operation. SectorID may reference a
// sector that no longer exists; that is allowed.
func NewOperation(accountID, sectorID, name, description, color, icon string) (*Operation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if len(name) > MaxNameLength {
		return nil, &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)}
	}
	return &Operation{
		AccountID:   accountID,
		SectorID:    sectorID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       color,
		Icon:        icon,
		IsActive:    true,
	}, nil
}
