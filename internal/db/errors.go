package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// notFound maps sql.ErrNoRows to model.ErrNotFound and leaves other errors
// alone.
func notFound(err error, what string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", what, id, model.ErrNotFound)
	}
	return err
}

// constraintError maps sqlite constraint violations to model.ErrConflict,
// or model.ErrValidation for NOT NULL and CHECK failures.
func constraintError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	code := sqliteErr.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
		return fmt.Errorf("%w: %s", model.ErrValidation, sqliteErr.Error())
	default:
		return fmt.Errorf("%w: %s", model.ErrConflict, sqliteErr.Error())
	}
}
