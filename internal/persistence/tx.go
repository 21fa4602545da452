package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoDatabase is returned when a database operation runs without a configured pool.
var ErrNoDatabase = errors.New("postgres pool not configured")

// DBTX is the query surface shared by the pool and an open transaction, so
// repositories work the same inside and outside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxFunc runs inside a transaction; returning an error rolls it back.
type TxFunc func(ctx context.Context, db DBTX) error

// Transactor opens units of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
	Handle() DBTX
}

// WithinTx runs fn in a read-committed transaction and commits when fn succeeds.
func (p *Postgres) WithinTx(ctx context.Context, fn TxFunc) (err error) {
	if p == nil || p.Pool == nil {
		return ErrNoDatabase
	}
	tx, err := p.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Handle returns the non-transactional query surface.
func (p *Postgres) Handle() DBTX {
	if p == nil || p.Pool == nil {
		return nil
	}
	return p.Pool
}
