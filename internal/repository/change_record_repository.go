package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
)

const (
	defaultChangeLimit = 100
	maxChangeLimit     = 1000
)

// ChangeRecordRepository appends and reads the audit trail. Records are never
// updated or deleted.
type ChangeRecordRepository interface {
	LastOccurredAt(ctx context.Context, db persistence.DBTX, ref domain.EntityRef) (time.Time, bool, error)
	Insert(ctx context.Context, db persistence.DBTX, record *domain.ChangeRecord) error
	List(ctx context.Context, db persistence.DBTX, filter domain.ChangeFilter) ([]domain.ChangeRecord, error)
}

type changeRecordRepository struct{}

// NewChangeRecordRepository builds the repository.
func NewChangeRecordRepository() ChangeRecordRepository {
	return &changeRecordRepository{}
}

func (r *changeRecordRepository) LastOccurredAt(ctx context.Context, db persistence.DBTX, ref domain.EntityRef) (time.Time, bool, error) {
	if db == nil {
		return time.Time{}, false, persistence.ErrNoDatabase
	}
	const query = `
        SELECT MAX(occurred_at) FROM change_records
        WHERE tenant_id=$1 AND entity_type=$2 AND entity_id=$3`
	var last *time.Time
	if err := db.QueryRow(ctx, query, ref.TenantID, ref.Type, ref.ID).Scan(&last); err != nil {
		return time.Time{}, false, err
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return *last, true, nil
}

func (r *changeRecordRepository) Insert(ctx context.Context, db persistence.DBTX, rec *domain.ChangeRecord) error {
	if db == nil {
		return persistence.ErrNoDatabase
	}
	before, err := domain.MarshalSnapshot(rec.BeforeSnapshot)
	if err != nil {
		return fmt.Errorf("encode before snapshot: %w", err)
	}
	after, err := domain.MarshalSnapshot(rec.AfterSnapshot)
	if err != nil {
		return fmt.Errorf("encode after snapshot: %w", err)
	}

	const query = `
        INSERT INTO change_records (id, tenant_id, entity_type, entity_id, change_kind, changed_field,
                                    before_snapshot, after_snapshot, actor_id, reason, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING seq`
	return db.QueryRow(ctx, query,
		rec.ID,
		rec.TenantID,
		rec.EntityType,
		rec.EntityID,
		rec.ChangeKind,
		rec.ChangedField,
		before,
		after,
		rec.ActorID,
		rec.Reason,
		rec.OccurredAt,
	).Scan(&rec.Seq)
}

func (r *changeRecordRepository) List(ctx context.Context, db persistence.DBTX, filter domain.ChangeFilter) ([]domain.ChangeRecord, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	query, args, err := buildChangeQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChangeRecord
	for rows.Next() {
		rec, err := scanChangeRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// errTenantRequired guards against an unscoped read of the audit trail.
var errTenantRequired = errors.New("change query requires a tenant")

// buildChangeQuery renders the read query for filter. The tenant predicate is
// always the first clause. Since is inclusive; After pages strictly past a
// returned record on (occurred_at, seq), which stays stable when several
// records share a timestamp.
func buildChangeQuery(filter domain.ChangeFilter) (string, []any, error) {
	if strings.TrimSpace(filter.TenantID) == "" {
		return "", nil, errTenantRequired
	}
	base := `SELECT id::text, tenant_id::text, entity_type, entity_id, change_kind, changed_field,
                    before_snapshot, after_snapshot, actor_id, reason, occurred_at, seq
             FROM change_records`
	args := []any{filter.TenantID}
	clauses := []string{"tenant_id=$1"}

	if filter.EntityType != nil {
		args = append(args, string(*filter.EntityType))
		clauses = append(clauses, fmt.Sprintf("entity_type=$%d", len(args)))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		clauses = append(clauses, fmt.Sprintf("entity_id=$%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, filter.Since.UTC())
		clauses = append(clauses, fmt.Sprintf("occurred_at >= $%d", len(args)))
	}
	if filter.After != nil {
		args = append(args, filter.After.OccurredAt.UTC(), filter.After.Seq)
		clauses = append(clauses, fmt.Sprintf("(occurred_at, seq) > ($%d, $%d)", len(args)-1, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultChangeLimit
	}
	if limit > maxChangeLimit {
		limit = maxChangeLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf("%s WHERE %s ORDER BY occurred_at ASC, seq ASC LIMIT $%d",
		base, strings.Join(clauses, " AND "), len(args))
	return query, args, nil
}

func scanChangeRecord(row pgx.Row) (domain.ChangeRecord, error) {
	var (
		rec           domain.ChangeRecord
		before, after []byte
	)
	if err := row.Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.EntityType,
		&rec.EntityID,
		&rec.ChangeKind,
		&rec.ChangedField,
		&before,
		&after,
		&rec.ActorID,
		&rec.Reason,
		&rec.OccurredAt,
		&rec.Seq,
	); err != nil {
		return domain.ChangeRecord{}, err
	}

	var err error
	if rec.BeforeSnapshot, err = domain.UnmarshalSnapshot(before); err != nil {
		return domain.ChangeRecord{}, fmt.Errorf("decode before snapshot of %s: %w", rec.ID, err)
	}
	if rec.AfterSnapshot, err = domain.UnmarshalSnapshot(after); err != nil {
		return domain.ChangeRecord{}, fmt.Errorf("decode after snapshot of %s: %w", rec.ID, err)
	}
	rec.OccurredAt = rec.OccurredAt.UTC()
	return rec, nil
}
