// Package httpapi exposes the core over a thin JSON API. Handlers parse
// primitives, call the service layer and render its values; every invariant
// lives below this package.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/service"
)

// Server wires the HTTP routes to the service layer. All requests operate on
// one account; multi-tenant sharing is not modeled.
type Server struct {
	http.Server

	db        database.DB
	accountID string
	expenses  *service.ExpenseService
	ops       *service.OperationService
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, db database.DB, accountID string) *Server {
	s := &Server{
		db:        db,
		accountID: accountID,
		expenses:  service.NewExpenseService(db),
		ops:       service.NewOperationService(db),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/sectors", s.handleListSectors)
	mux.HandleFunc("POST /api/sectors", s.handleCreateSector)
	mux.HandleFunc("DELETE /api/sectors/{id}", s.handleDeleteSector)

	mux.HandleFunc("GET /api/operations", s.handleListOperations)
	mux.HandleFunc("POST /api/operations", s.handleCreateOperation)
	mux.HandleFunc("DELETE /api/operations/{id}", s.handleDeleteOperation)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("PUT /api/expenses/{id}/invoice", s.handleSetInvoice)
	mux.HandleFunc("POST /api/expenses/{id}/verify", s.handleVerifyExpense)
	mux.HandleFunc("POST /api/expenses/{id}/pay", s.handleMarkPaid)
	mux.HandleFunc("GET /api/verification", s.handlePendingVerification)

	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/reports/monthly/chart.png", s.handleMonthlyChart)
	mux.HandleFunc("GET /api/exports/expenses.csv", s.handleExportCSV)

	mux.HandleFunc("GET /api/plans", s.handleListPlans)
	mux.HandleFunc("POST /api/plan", s.handleUpgradePlan)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
