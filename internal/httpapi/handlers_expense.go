package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/allocation"
	"gitlab.com/agrofinance/agrofinance/internal/models"
	"gitlab.com/agrofinance/agrofinance/internal/plan"
	"gitlab.com/agrofinance/agrofinance/internal/report"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
	"gitlab.com/agrofinance/agrofinance/internal/service"
)

type allocationEntry struct {
	OperationID string `json:"operationId"`
	Percentage  int    `json:"percentage"`
}

type createExpenseRequest struct {
	OperationID string            `json:"operationId"`
	Description string            `json:"description"`
	Supplier    string            `json:"supplier"`
	Category    string            `json:"category"`
	AgreedValue decimal.Decimal   `json:"agreedValue"`
	DueDate     string            `json:"dueDate"`
	CreatedBy   string            `json:"createdBy"`
	Notes       string            `json:"notes"`
	IsShared    bool              `json:"isShared"`
	Allocations []allocationEntry `json:"allocations"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		writeError(w, &models.ValidationError{Field: "dueDate", Message: "must be a YYYY-MM-DD date"})
		return
	}

	selection := make(allocation.Selection, len(req.Allocations))
	for i, a := range req.Allocations {
		selection[i] = allocation.Entry{OperationID: a.OperationID, Percentage: a.Percentage}
	}

	expense, err := s.expenses.CreateExpense(r.Context(), service.CreateExpenseInput{
		AccountID:   s.accountID,
		OperationID: req.OperationID,
		Description: req.Description,
		Supplier:    req.Supplier,
		Category:    req.Category,
		AgreedValue: req.AgreedValue,
		DueDate:     dueDate,
		CreatedBy:   req.CreatedBy,
		Notes:       req.Notes,
		IsShared:    req.IsShared,
		Selection:   selection,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := repository.NewExpenseRepository(s.db).ListByAccount(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := repository.NewExpenseRepository(s.db).GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "expense not found"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := repository.NewExpenseRepository(s.db).Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setInvoiceRequest struct {
	InvoiceValue  decimal.Decimal `json:"invoiceValue"`
	InvoiceNumber string          `json:"invoiceNumber"`
}

func (s *Server) handleSetInvoice(w http.ResponseWriter, r *http.Request) {
	var req setInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	expense, err := s.expenses.SetInvoiceValue(r.Context(), r.PathValue("id"), req.InvoiceValue, req.InvoiceNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

type verifyRequest struct {
	VerifiedBy string `json:"verifiedBy"`
}

func (s *Server) handleVerifyExpense(w http.ResponseWriter, r *http.Request) {
	if locked, done := s.gate(w, r, plan.FeatureVerification); locked || done {
		return
	}
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	expense, err := s.expenses.VerifyExpense(r.Context(), r.PathValue("id"), req.VerifiedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.MarkExpensePaid(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handlePendingVerification(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.PendingVerification(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

type monthlyReportResponse struct {
	Report        report.MonthlyReport `json:"report"`
	PercentChange decimal.Decimal      `json:"percentChangeVsPreviousMonth"`
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if locked, done := s.gate(w, r, plan.FeatureReports); locked || done {
		return
	}
	month, year := parseMonthYear(r)
	rep, change, err := s.expenses.MonthlyReport(r.Context(), s.accountID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlyReportResponse{Report: rep, PercentChange: change})
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	if locked, done := s.gate(w, r, plan.FeatureReports); locked || done {
		return
	}
	month, year := parseMonthYear(r)
	rep, _, err := s.expenses.MonthlyReport(r.Context(), s.accountID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	png, err := report.GenerateDistributionChart(rep)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data to chart"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if locked, done := s.gate(w, r, plan.FeatureExport); locked || done {
		return
	}
	expenses, err := repository.NewExpenseRepository(s.db).ListByAccount(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	operations, err := repository.NewOperationRepository(s.db).ListByAccount(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	csvBytes, err := report.GenerateExpensesCSV(expenses, operations)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	_, _ = w.Write(csvBytes)
}

// gate rejects the request when the feature is locked for the account's
// current plan. The second return value reports that a response was already
// written for an unrelated failure.
func (s *Server) gate(w http.ResponseWriter, r *http.Request, feature string) (locked, done bool) {
	planID, err := s.currentPlanID(r)
	if err != nil {
		writeError(w, err)
		return false, true
	}
	if plan.IsPremiumFeature(planID, feature) {
		writeFeatureLocked(w, feature)
		return true, false
	}
	return false, false
}
