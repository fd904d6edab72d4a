package service

import (
	"context"
	"fmt"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/logger"
	"gitlab.com/agrofinance/agrofinance/internal/models"
	"gitlab.com/agrofinance/agrofinance/internal/plan"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
)

// ErrOperationLimitReached means the account's plan does not allow another
// operation. Upgrading the plan clears it.
type ErrOperationLimitReached struct {
	PlanID string
	Limit  int
}

func (e *ErrOperationLimitReached) Error() string {
	return fmt.Sprintf("plan %q allows at most %d operations", e.PlanID, e.Limit)
}

// OperationService handles sector/operation management and plan upgrades.
type OperationService struct {
	db database.DB
}

// NewOperationService creates an OperationService.
func NewOperationService(db database.DB) *OperationService {
	return &OperationService{db: db}
}

// CreateOperation adds an operation after checking the account's plan limit.
func (s *OperationService) CreateOperation(ctx context.Context, accountID, sectorID, name, description, color, icon string) (*models.Operation, error) {
	account, err := repository.NewAccountRepository(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	opRepo := repository.NewOperationRepository(s.db)

	count, err := opRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	accountPlan := plan.Find(account.PlanID)
	if !plan.CanAddOperation(accountPlan, count) {
		return nil, &ErrOperationLimitReached{PlanID: accountPlan.ID, Limit: accountPlan.OperationsLimit}
	}

	operation, err := models.NewOperation(accountID, sectorID, name, description, color, icon)
	if err != nil {
		return nil, err
	}
	if err := opRepo.Create(ctx, operation); err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("operation_id", operation.ID).
		Str("sector_id", operation.SectorID).
		Msg("Operation created")
	return operation, nil
}

// CreateSector adds a sector.
func (s *OperationService) CreateSector(ctx context.Context, accountID, name, description, color, icon string) (*models.Sector, error) {
	sector, err := models.NewSector(accountID, name, description, color, icon)
	if err != nil {
		return nil, err
	}
	if err := repository.NewSectorRepository(s.db).Create(ctx, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

// DeleteSector removes a sector. Its operations keep dangling sector ids.
func (s *OperationService) DeleteSector(ctx context.Context, sectorID string) error {
	return repository.NewSectorRepository(s.db).Delete(ctx, sectorID)
}

// DeleteOperation removes an operation. Its expenses keep dangling
// operation ids.
func (s *OperationService) DeleteOperation(ctx context.Context, operationID string) error {
	return repository.NewOperationRepository(s.db).Delete(ctx, operationID)
}

// UpgradePlan switches the account to a new plan.
func (s *OperationService) UpgradePlan(ctx context.Context, accountID, planID string) error {
	if known := plan.Find(planID); known.ID != planID {
		return &models.ValidationError{Field: "planId", Message: fmt.Sprintf("unknown plan %q", planID)}
	}
	if err := repository.NewAccountRepository(s.db).UpdatePlan(ctx, accountID, planID); err != nil {
		return err
	}
	logger.Log.Info().Str("account_id", accountID).Str("plan_id", planID).Msg("Plan upgraded")
	return nil
}
