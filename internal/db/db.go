// Package db provides Postgres access for the mtg CLI.
//
// Two connection paths exist on purpose: pgxpool for the high-volume
// import/search/deck paths, and database/sql (lib/pq) for the analysis
// read path and for goose migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/admin/mtg-cli/internal/logging"
)

// NewPool opens a pgx connection pool against the given database URL.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("missing required DATABASE_URL environment variable")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}

// OpenSQL opens a database/sql handle via lib/pq.
func OpenSQL(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("missing required DATABASE_URL environment variable")
	}
	handle, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	handle.SetMaxOpenConns(5)
	handle.SetMaxIdleConns(5)
	return handle, nil
}

// TableExists reports whether a table is present in the public schema.
func TableExists(ctx context.Context, handle *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := handle.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`, tableName).Scan(&exists)
	return exists, err
}

// DropTables drops all domain tables. Used by `mtg db reset`.
func DropTables(ctx context.Context, handle *sql.DB) error {
	logging.WithComponent("db").Warn("dropping all domain tables")
	_, err := handle.ExecContext(ctx, `
		DROP TABLE IF EXISTS deck_combos CASCADE;
		DROP TABLE IF EXISTS bracket_estimation CASCADE;
		DROP TABLE IF EXISTS deck_analysis CASCADE;
		DROP TABLE IF EXISTS missing_cards CASCADE;
		DROP TABLE IF EXISTS deck_cards CASCADE;
		DROP TABLE IF EXISTS decks CASCADE;
		DROP TABLE IF EXISTS owned_cards CASCADE;
		DROP TABLE IF EXISTS cards CASCADE;
		DROP TABLE IF EXISTS goose_db_version CASCADE;
	`)
	return err
}
