package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRows is returned by QueryRow when the statement matched nothing.
var ErrNoRows = sql.ErrNoRows

// Querier executes statements written with '?' placeholders against either backend.
type Querier interface {
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)
	Query(ctx context.Context, stmt string, args ...any) ([]Row, error)
	QueryRow(ctx context.Context, stmt string, args ...any) (Row, error)
}

// conn is the subset of *sql.DB and *sql.Tx used by querier.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type querier struct {
	conn    conn
	dialect Dialect
}

func (q *querier) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res, err := q.conn.ExecContext(ctx, q.dialect.Rebind(stmt), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (q *querier) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := q.conn.QueryContext(ctx, q.dialect.Rebind(stmt), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (q *querier) QueryRow(ctx context.Context, stmt string, args ...any) (Row, error) {
	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

// Store is the single persistence handle shared by all repositories.
// It is chosen once at startup by Open and is safe for concurrent use.
type Store struct {
	querier
	db *sql.DB
}

// NewStore wraps an already opened handle. Open is the usual entry point;
// tests use NewStore with sqlmock.
func NewStore(sqlDB *sql.DB, dialect Dialect) *Store {
	return &Store{
		querier: querier{conn: sqlDB, dialect: dialect},
		db:      sqlDB,
	}
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// InTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including on panic.
func (s *Store) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&querier{conn: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
