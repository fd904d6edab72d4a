package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gitlab.com/agrofinance/agrofinance/internal/allocation"
	"gitlab.com/agrofinance/agrofinance/internal/logger"
	"gitlab.com/agrofinance/agrofinance/internal/models"
	"gitlab.com/agrofinance/agrofinance/internal/reconcile"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
	"gitlab.com/agrofinance/agrofinance/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps the core's typed errors onto HTTP statuses. Validation and
// allocation failures are client-correctable; state-machine preconditions
// are conflicts; everything else is opaque.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var allocationErr *allocation.Error
	var transitionErr *reconcile.InvalidTransitionError
	var limitErr *service.ErrOperationLimitReached

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: validationErr.Error(), Code: "validation"})
	case errors.As(err, &allocationErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: allocationErr.Error(), Code: allocationCode(allocationErr)})
	case errors.Is(err, reconcile.ErrMissingInvoiceValue):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "missing_invoice_value"})
	case errors.As(err, &transitionErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: transitionErr.Error(), Code: "invalid_transition"})
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: limitErr.Error(), Code: "operation_limit"})
	default:
		logger.Log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func allocationCode(err *allocation.Error) string {
	if err.Kind == allocation.TooFewOperations {
		return "too_few_operations"
	}
	return "sum_not_hundred"
}

// writeFeatureLocked rejects a request that needs a higher subscription tier.
func writeFeatureLocked(w http.ResponseWriter, feature string) {
	writeJSON(w, http.StatusForbidden, errorResponse{
		Error: "feature locked on current plan: " + feature,
		Code:  "feature_locked",
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// parseMonthYear reads month/year query parameters, defaulting to the
// current calendar month.
func parseMonthYear(r *http.Request) (time.Month, int) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	return month, year
}

// currentPlanID reads the account's plan for feature gating.
func (s *Server) currentPlanID(r *http.Request) (string, error) {
	account, err := repository.NewAccountRepository(s.db).GetByID(r.Context(), s.accountID)
	if err != nil {
		return "", err
	}
	return account.PlanID, nil
}
