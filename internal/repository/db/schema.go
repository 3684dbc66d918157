package db

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL
	)`,
}

var dropSchema = []string{
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS posts`,
}

func schemaFor(d Dialect) []string {
	if d == DialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// EnsureSchema creates the users and posts tables when missing. It is safe to
// run on every start, whichever backend is active.
func EnsureSchema(ctx context.Context, s *Store) error {
	return applyStatements(ctx, s, schemaFor(s.Dialect()))
}

// ResetSchema drops both tables and recreates them empty.
func ResetSchema(ctx context.Context, s *Store) error {
	stmts := append(append([]string{}, dropSchema...), schemaFor(s.Dialect())...)
	return applyStatements(ctx, s, stmts)
}

func applyStatements(ctx context.Context, s *Store, stmts []string) error {
	return s.InTx(ctx, func(q Querier) error {
		for i, stmt := range stmts {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
}
