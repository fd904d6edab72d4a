package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/agrofinance/agrofinance/internal/database"
	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// SectorRepository handles sector database operations.
type SectorRepository struct {
	db database.PGXDB
}

// NewSectorRepository creates a new SectorRepository.
func NewSectorRepository(db database.PGXDB) *SectorRepository {
	return &SectorRepository{db: db}
}

// Create adds a new sector.
func (r *SectorRepository) Create(ctx context.Context, sector *models.Sector) error {
	sector.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, `
		INSERT INTO sectors (id, account_id, name, description, color, icon, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, sector.ID, sector.AccountID, sector.Name, sector.Description,
		sector.Color, sector.Icon, sector.IsActive,
	).Scan(&sector.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sector: %w", err)
	}
	return nil
}

// GetByID retrieves a sector by ID. Returns (nil, nil) when the sector does
// not exist: operation sector references are weak and may be dangling, so
// absence is an answer rather than an error.
func (r *SectorRepository) GetByID(ctx context.Context, id string) (*models.Sector, error) {
	var s models.Sector
	err := r.db.QueryRow(ctx, `
		SELECT id, account_id, name, description, color, icon, is_active, created_at
		FROM sectors WHERE id = $1
	`, id).Scan(&s.ID, &s.AccountID, &s.Name, &s.Description, &s.Color, &s.Icon, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sector: %w", err)
	}
	return &s, nil
}

// ListByAccount retrieves all sectors for an account.
func (r *SectorRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Sector, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, name, description, color, icon, is_active, created_at
		FROM sectors
		WHERE account_id = $1
		ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	var sectors []models.Sector
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.AccountID, &s.Name, &s.Description, &s.Color, &s.Icon, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}
	return sectors, nil
}

// Update modifies an existing sector.
func (r *SectorRepository) Update(ctx context.Context, sector *models.Sector) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sectors SET
			name = $2,
			description = $3,
			color = $4,
			icon = $5,
			is_active = $6
		WHERE id = $1
	`, sector.ID, sector.Name, sector.Description, sector.Color, sector.Icon, sector.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update sector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sector %s not found", sector.ID)
	}
	return nil
}

// Delete removes a sector by ID. Operations referencing it keep their
// sector_id; the reference simply dangles.
func (r *SectorRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sector: %w", err)
	}
	return nil
}
