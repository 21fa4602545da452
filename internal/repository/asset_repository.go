package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

// AssetRepository manages asset persistence.
type AssetRepository interface {
	tracking.Repository[*domain.Asset]
}

type assetRepository struct{}

// NewAssetRepository builds the repository.
func NewAssetRepository() AssetRepository {
	return &assetRepository{}
}

const assetColumns = `id::text, tenant_id::text, name, description, hosting_provider, country_id::text,
               safeguard_mechanism_id::text, contains_personal_data, risk_level, metadata, is_active,
               created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, db persistence.DBTX, a *domain.Asset) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        INSERT INTO assets (tenant_id, name, description, hosting_provider, country_id, safeguard_mechanism_id,
                            contains_personal_data, risk_level, metadata, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id::text, created_at, updated_at`
	return db.QueryRow(ctx, query,
		a.TenantID,
		a.Name,
		a.Description,
		a.HostingProvider,
		a.CountryID,
		a.SafeguardMechanismID,
		a.ContainsPersonalData,
		a.RiskLevel,
		metadataOrEmpty(a.Metadata),
		a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, db persistence.DBTX, a *domain.Asset) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        UPDATE assets SET name=$1, description=$2, hosting_provider=$3, country_id=$4, safeguard_mechanism_id=$5,
            contains_personal_data=$6, risk_level=$7, metadata=$8, is_active=$9, updated_at=NOW()
        WHERE id=$10 AND tenant_id=$11`
	cmd, err := db.Exec(ctx, query,
		a.Name,
		a.Description,
		a.HostingProvider,
		a.CountryID,
		a.SafeguardMechanismID,
		a.ContainsPersonalData,
		a.RiskLevel,
		metadataOrEmpty(a.Metadata),
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

func (r *assetRepository) Get(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Asset, error) {
	return r.fetch(ctx, db, `SELECT `+assetColumns+` FROM assets WHERE id=$1 AND tenant_id=$2`, tenantID, id)
}

func (r *assetRepository) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Asset, error) {
	return r.fetch(ctx, db, `SELECT `+assetColumns+` FROM assets WHERE id=$1 AND tenant_id=$2 FOR UPDATE`, tenantID, id)
}

func (r *assetRepository) fetch(ctx context.Context, db persistence.DBTX, query, tenantID, id string) (*domain.Asset, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	var a domain.Asset
	if err := db.QueryRow(ctx, query, id, tenantID).Scan(
		&a.ID,
		&a.TenantID,
		&a.Name,
		&a.Description,
		&a.HostingProvider,
		&a.CountryID,
		&a.SafeguardMechanismID,
		&a.ContainsPersonalData,
		&a.RiskLevel,
		&a.Metadata,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func metadataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
