package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jinzhu/inflection"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

// referenceAttrs lists, per referenced entity type, the columns copied into
// snapshots and the snapshot keys they are stored under.
var referenceAttrs = map[domain.EntityType][]refColumn{
	domain.EntityTypeCountry: {
		{column: "name", key: "name"},
		{column: "code", key: "code"},
		{column: "is_eu_eea", key: "isEuEea"},
		{column: "has_adequacy_decision", key: "hasAdequacyDecision"},
	},
	domain.EntityTypeSafeguardMechanism: {
		{column: "name", key: "name"},
		{column: "code", key: "code"},
	},
	domain.EntityTypeAsset: {
		{column: "name", key: "name"},
		{column: "contains_personal_data", key: "containsPersonalData"},
		{column: "risk_level", key: "riskLevel"},
	},
}

type refColumn struct {
	column string
	key    string
}

// ReferenceResolver loads reference attributes with plain SQL. Each lookup
// runs in a savepoint so a failing lookup leaves the mutation's transaction usable.
type ReferenceResolver struct{}

// NewReferenceResolver builds the resolver.
func NewReferenceResolver() *ReferenceResolver {
	return &ReferenceResolver{}
}

var _ tracking.ReferenceResolver = (*ReferenceResolver)(nil)

// Resolve implements tracking.ReferenceResolver.
func (r *ReferenceResolver) Resolve(ctx context.Context, db persistence.DBTX, tenantID string, refType domain.EntityType, id string) (map[string]any, error) {
	if db == nil {
		return nil, persistence.ErrNoDatabase
	}
	query, cols, err := referenceQuery(refType)
	if err != nil {
		return nil, err
	}

	sp, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("open savepoint for %s lookup: %w", refType, err)
	}

	values := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := sp.QueryRow(ctx, query, id, tenantID).Scan(dest...); err != nil {
		_ = sp.Rollback(ctx)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tracking.ErrReferenceNotFound
		}
		return nil, fmt.Errorf("lookup %s %s: %w", refType, id, err)
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, fmt.Errorf("release savepoint for %s lookup: %w", refType, err)
	}

	attrs := make(map[string]any, len(cols))
	for i, col := range cols {
		attrs[col.key] = values[i]
	}
	return attrs, nil
}

// referenceQuery renders the lookup for refType. Table names are the plural
// of the entity type.
func referenceQuery(refType domain.EntityType) (string, []refColumn, error) {
	cols, ok := referenceAttrs[refType]
	if !ok {
		return "", nil, fmt.Errorf("no reference attributes for %s", refType)
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.column
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id=$1 AND tenant_id=$2",
		strings.Join(names, ", "), tableFor(refType))
	return query, cols, nil
}

func tableFor(entityType domain.EntityType) string {
	return inflection.Plural(string(entityType))
}
