// Package models defines the domain entities for farm cost tracking.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned when the caller leaves the category blank.
const DefaultCategory = "Outros"

// DefaultSupplier is assigned when the caller leaves the supplier blank.
const DefaultSupplier = "Não informado"

// MaxNameLength is the maximum allowed length for sector and operation names.
const MaxNameLength = 60

// ExpenseStatus values. An expense starts pending, is verified against its
// invoice, and ends paid. Rejected is declared but no transition currently
// produces it.
const (
	ExpenseStatusPending     = "pending"
	ExpenseStatusVerified    = "verified"
	ExpenseStatusDiscrepancy = "discrepancy"
	ExpenseStatusPaid        = "paid"
	ExpenseStatusRejected    = "rejected"
)

// ExpenseCategories lists the built-in expense categories.
var ExpenseCategories = []string{
	"Insumos",
	"Ração",
	"Combustível",
	"Manutenção",
	"Mão de Obra",
	"Veterinário",
	"Sementes",
	"Fertilizantes",
	"Energia",
	"Transporte",
	"Outros",
}

// Sector is a coarse grouping of operations, e.g. a farm area.
type Sector struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Operation is a cost center within a sector. SectorID is a weak reference:
// deleting a sector leaves it dangling rather than cascading.
type Operation struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"accountId"`
	SectorID    string    `json:"sectorId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExpenseAllocation is one slice of a shared expense. Value is derived from
// the expense's agreed value and the percentage; it is recomputed whenever
// either changes and is never persisted as an independent source of truth.
type ExpenseAllocation struct {
	OperationID string          `json:"operationId"`
	Percentage  int             `json:"percentage"`
	Value       decimal.Decimal `json:"value"`
}

// Expense is a single recorded cost. OperationID is the sole destination for
// a non-shared expense and the home operation for a shared one. A shared
// expense carries an allocation list whose percentages sum to 100.
type Expense struct {
	ID                string              `json:"id"`
	AccountID         string              `json:"accountId"`
	OperationID       string              `json:"operationId"`
	Description       string              `json:"description"`
	Supplier          string              `json:"supplier"`
	Category          string              `json:"category"`
	AgreedValue       decimal.Decimal     `json:"agreedValue"`
	InvoiceValue      *decimal.Decimal    `json:"invoiceValue,omitempty"`
	InvoiceNumber     string              `json:"invoiceNumber,omitempty"`
	DueDate           time.Time           `json:"dueDate"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	Status            string              `json:"status"`
	Notes             string              `json:"notes,omitempty"`
	PaymentDate       *time.Time          `json:"paymentDate,omitempty"`
	VerifiedBy        string              `json:"verifiedBy,omitempty"`
	VerificationNotes string              `json:"verificationNotes,omitempty"`
	IsShared          bool                `json:"isShared"`
	Allocations       []ExpenseAllocation `json:"allocations,omitempty"`
}

// Account owns sectors, operations and expenses. PlanID selects the
// subscription tier.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PlanID    string    `json:"planId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SubscriptionPlan describes a tier: price, capability tags and limits.
// A limit of -1 means unlimited. IsPopular is a display hint only.
type SubscriptionPlan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Features        []string        `json:"features"`
	OperationsLimit int             `json:"operationsLimit"`
	UsersLimit      int             `json:"usersLimit"`
	IsPopular       bool            `json:"isPopular,omitempty"`
}
