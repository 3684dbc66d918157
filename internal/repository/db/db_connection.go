package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// Options select the backend. A non-empty DatabaseURL means PostgreSQL;
// otherwise SQLite is opened at SQLitePath.
type Options struct {
	DatabaseURL string
	SQLitePath  string
}

// DialectFor reports which backend Open would pick for opts.
func DialectFor(opts Options) Dialect {
	if opts.DatabaseURL != "" {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the selected backend and fails fast if it is unreachable.
// It never returns a non-nil Store together with an error.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		sqlDB *sql.DB
		err   error
	)
	switch DialectFor(opts) {
	case DialectPostgres:
		sqlDB, err = openPostgres(opts.DatabaseURL)
	default:
		sqlDB, err = openSQLite(ctx, opts.SQLitePath)
	}
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", DialectFor(opts), err)
	}
	return NewStore(sqlDB, DialectFor(opts)), nil
}

func openPostgres(url string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// one writer at a time; pragmas below stick to that single connection
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}
	return sqlDB, nil
}
