// Package datastore is the persistence engine behind the repositories: a
// SQLite database reached through sqlx, with one generic Table per model.
package datastore

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite
const DriverName = "sqlite"

// Datastore wraps a migrated database and its prepared statement cache
type Datastore struct {
	DB    *sqlx.DB
	stmts *StatementCache
}

// New wraps an open, migrated database
func New(db *sql.DB) *Datastore {
	xdb := sqlx.NewDb(db, DriverName)
	return &Datastore{
		DB:    xdb,
		stmts: NewStatementCache(xdb),
	}
}

// Open opens the database at dsn without running migrations
func Open(dsn string) (*Datastore, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db), nil
}

// Statements exposes the prepared statement cache
func (ds *Datastore) Statements() *StatementCache {
	return ds.stmts
}

// Close releases cached statements and closes the database
func (ds *Datastore) Close() error {
	stmtErr := ds.stmts.Close()
	if err := ds.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if stmtErr != nil {
		return fmt.Errorf("failed to close prepared statements: %w", stmtErr)
	}
	return nil
}
