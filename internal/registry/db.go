// Package registry is the durable source of truth for installed
// applications. One record per identity key lives in a small SQLite
// database; every mutation goes through Upsert or Remove so the
// at-most-one-record invariant is enforced in a single place.
package registry

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrWriteFailed wraps any failure to persist a mutation. The prior
// durable state is intact whenever it is returned.
var ErrWriteFailed = errors.New("registry write failed")

// Registry provides SQLite-backed storage of installed-app records.
type Registry struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry database at path.
// Use ":memory:" for tests.
func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection
	// serializes all mutations without further locking.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// WAL keeps readers consistent while a write is in flight and
	// survives a crash mid-write with the prior state intact.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create registry schema: %w", err)
	}

	return &Registry{db: db}, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
