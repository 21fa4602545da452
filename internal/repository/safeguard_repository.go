package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

// SafeguardRepository manages safeguard mechanism persistence.
type SafeguardRepository interface {
	tracking.Repository[*domain.SafeguardMechanism]
}

type safeguardRepository struct{}

// NewSafeguardRepository builds the repository.
func NewSafeguardRepository() SafeguardRepository {
	return &safeguardRepository{}
}

const safeguardColumns = `id::text, tenant_id::text, name, code, description, is_active, created_at, updated_at`

func (r *safeguardRepository) Create(ctx context.Context, db persistence.DBTX, s *domain.SafeguardMechanism) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        INSERT INTO safeguard_mechanisms (tenant_id, name, code, description, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at, updated_at`
	return db.QueryRow(ctx, query,
		s.TenantID,
		s.Name,
		s.Code,
		s.Description,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *safeguardRepository) Update(ctx context.Context, db persistence.DBTX, s *domain.SafeguardMechanism) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	const query = `
        UPDATE safeguard_mechanisms SET name=$1, code=$2, description=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5 AND tenant_id=$6`
	cmd, err := db.Exec(ctx, query, s.Name, s.Code, s.Description, s.IsActive, s.ID, s.TenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *safeguardRepository) Get(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.SafeguardMechanism, error) {
	return r.fetch(ctx, db, `SELECT `+safeguardColumns+` FROM safeguard_mechanisms WHERE id=$1 AND tenant_id=$2`, tenantID, id)
}

func (r *safeguardRepository) GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (*domain.SafeguardMechanism, error) {
	return r.fetch(ctx, db, `SELECT `+safeguardColumns+` FROM safeguard_mechanisms WHERE id=$1 AND tenant_id=$2 FOR UPDATE`, tenantID, id)
}

func (r *safeguardRepository) fetch(ctx context.Context, db persistence.DBTX, query, tenantID, id string) (*domain.SafeguardMechanism, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	var s domain.SafeguardMechanism
	if err := db.QueryRow(ctx, query, id, tenantID).Scan(
		&s.ID,
		&s.TenantID,
		&s.Name,
		&s.Code,
		&s.Description,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
