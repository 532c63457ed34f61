package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// sqlite has a single writer, and an in-memory database only lives as
	// long as its one connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	if err := ensurePageDateUnique(ctx, db); err != nil {
		return err
	}

	return nil
}

// ensurePageDateUnique adds the (diary_id, page_date) index to databases
// created before pages carried a table-level UNIQUE constraint.
func ensurePageDateUnique(ctx context.Context, db *sql.DB) error {
	var exists int
	err := db.QueryRowContext(ctx, `
		SELECT 1
		FROM pragma_index_list('pages') il
		JOIN pragma_index_info(il.name) ii
		WHERE il."unique" = 1 AND ii.name = 'page_date'
		LIMIT 1`).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check pages unique index: %w", err)
	}

	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_diary_date ON pages(diary_id, page_date)"); err != nil {
		return fmt.Errorf("create idx_pages_diary_date: %w", err)
	}

	return nil
}
