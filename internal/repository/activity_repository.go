package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

// ActivityRepository manages processing activity persistence.
type ActivityRepository interface {
	tracking.Repository[*domain.Activity]
}

type activityRepository struct{}

// NewActivityRepository builds the repository.
func NewActivityRepository() ActivityRepository {
	return &activityRepository{}
}

const activityColumns = `id::text, tenant_id::text, name, purpose, asset_id::text, legal_basis, risk_level,
               contains_special_category_data, notes, is_active, created_at, updated_at`

func (r *activityRepository) Create(ctx context.Context, db persistence.DBTX, a *domain.Activity) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        INSERT INTO activities (tenant_id, name, purpose, asset_id, legal_basis, risk_level,
                                contains_special_category_data, notes, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id::text, created_at, updated_at`
	return db.QueryRow(ctx, query,
		a.TenantID,
		a.Name,
		a.Purpose,
		a.AssetID,
		a.LegalBasis,
		a.RiskLevel,
		a.ContainsSpecialCategoryData,
		a.Notes,
		a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *activityRepository) Update(ctx context.Context, db persistence.DBTX, a *domain.Activity) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        UPDATE activities SET name=$1, purpose=$2, asset_id=$3, legal_basis=$4, risk_level=$5,
            contains_special_category_data=$6, notes=$7, is_active=$8, updated_at=NOW()
        WHERE id=$9 AND tenant_id=$10`
	cmd, err := db.Exec(ctx, query,
		a.Name,
		a.Purpose,
		a.AssetID,
		a.LegalBasis,
		a.RiskLevel,
		a.ContainsSpecialCategoryData,
		a.Notes,
		a.IsActive,
		a.ID,
		a.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *activityRepository) Get(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Activity, error) {
	return r.fetch(ctx, db, `SELECT `+activityColumns+` FROM activities WHERE id=$1 AND tenant_id=$2`, tenantID, id)
}

func (r *activityRepository) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Activity, error) {
	return r.fetch(ctx, db, `SELECT `+activityColumns+` FROM activities WHERE id=$1 AND tenant_id=$2 FOR UPDATE`, tenantID, id)
}

func (r *activityRepository) fetch(ctx context.Context, db persistence.DBTX, query, tenantID, id string) (*domain.Activity, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	var a domain.Activity
	if err := db.QueryRow(ctx, query, id, tenantID).Scan(
		&a.ID,
		&a.TenantID,
		&a.Name,
		&a.Purpose,
		&a.AssetID,
		&a.LegalBasis,
		&a.RiskLevel,
		&a.ContainsSpecialCategoryData,
		&a.Notes,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
