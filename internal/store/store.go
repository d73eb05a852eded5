// Package store persists dataset summaries and report run history in SQLite.
//
// The schema lives in versioned migration files under migrations/ at the
// repository root and is applied through golang-migrate. A stored summary
// carries the same shape the dataset package loads from JSON: the record rows,
// the target distribution, and the source pool size, replaced atomically on
// each import.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNoSummary is returned when the database holds no imported summary yet.
var ErrNoSummary = errors.New("no summary imported")

// DB wraps the SQLite connection pool for the summary database.
type DB struct {
	*sql.DB
}

// Open opens the summary database at path, creating the file if needed.
// The schema is not applied here; call MigrateUp before first use.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{db}, nil
}
