package config

import (
	"database/sql"
	"time"
)

// OptimizeDatabaseConnection applies performance optimizations to the database connection
func OptimizeDatabaseConnection(db *sql.DB) {
	// SQLite allows a single writer; a small pool keeps readers concurrent
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

// ApplyPragmaOptimizations applies SQLite-specific performance pragmas.
// journal_mode is persisted in the file; the rest apply to the connection
// that runs them.
func ApplyPragmaOptimizations(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",   // Write-Ahead Logging
		"PRAGMA synchronous = NORMAL", // Safe with WAL
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA optimize",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}

	return nil
}
