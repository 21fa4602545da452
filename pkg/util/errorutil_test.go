package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
)

func TestToDomainError(t *testing.T) {
	tcs := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{name: "not found", err: fmt.Errorf("fetch asset: %w", pgx.ErrNoRows), code: "NOT_FOUND", status: http.StatusNotFound},
		{name: "snapshot", err: fmt.Errorf("%w: asset a-1: %w", tracking.ErrSnapshotUnavailable, errors.New("reset")), code: "AUDIT_SNAPSHOT_UNAVAILABLE", status: http.StatusInternalServerError},
		{name: "no database", err: persistence.ErrNoDatabase, code: "SERVICE_UNAVAILABLE", status: http.StatusServiceUnavailable},
		{name: "unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "countries_tenant_id_code_key"}, code: "CONFLICT", status: http.StatusConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503"}, code: "VALIDATION_FAILED", status: http.StatusBadRequest},
		{name: "validation passthrough", err: NewValidationError("name required", nil), code: "VALIDATION_FAILED", status: http.StatusBadRequest},
		{name: "other", err: errors.New("boom"), code: "INTERNAL_ERROR", status: http.StatusInternalServerError},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}
