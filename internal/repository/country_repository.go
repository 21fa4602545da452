package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

// CountryRepository manages country persistence.
type CountryRepository interface {
	tracking.Repository[*domain.Country]
}

type countryRepository struct{}

// NewCountryRepository builds the repository.
func NewCountryRepository() CountryRepository {
	return &countryRepository{}
}

const countryColumns = `id::text, tenant_id::text, name, code, is_eu_eea, has_adequacy_decision, is_active, created_at, updated_at`

func (r *countryRepository) Create(ctx context.Context, db persistence.DBTX, c *domain.Country) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        INSERT INTO countries (tenant_id, name, code, is_eu_eea, has_adequacy_decision, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id::text, created_at, updated_at`
	return db.QueryRow(ctx, query,
		c.TenantID,
		c.Name,
		c.Code,
		c.IsEUEEA,
		c.HasAdequacyDecision,
		c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *countryRepository) Update(ctx context.Context, db persistence.DBTX, c *domain.Country) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        UPDATE countries SET name=$1, code=$2, is_eu_eea=$3, has_adequacy_decision=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6 AND tenant_id=$7`
	cmd, err := db.Exec(ctx, query,
		c.Name,
		c.Code,
		c.IsEUEEA,
		c.HasAdequacyDecision,
		c.IsActive,
		c.ID,
		c.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *countryRepository) Get(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Country, error) {
	return r.fetch(ctx, db, `SELECT `+countryColumns+` FROM countries WHERE id=$1 AND tenant_id=$2`, tenantID, id)
}

func (r *countryRepository) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.Country, error) {
	return r.fetch(ctx, db, `SELECT `+countryColumns+` FROM countries WHERE id=$1 AND tenant_id=$2 FOR UPDATE`, tenantID, id)
}

func (r *countryRepository) fetch(ctx context.Context, db persistence.DBTX, query, tenantID, id string) (*domain.Country, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	var c domain.Country
	if err := db.QueryRow(ctx, query, id, tenantID).Scan(
		&c.ID,
		&c.TenantID,
		&c.Name,
		&c.Code,
		&c.IsEUEEA,
		&c.HasAdequacyDecision,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
