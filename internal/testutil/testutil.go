package testutil

import (
	"database/sql"
	"testing"

	"github.com/jbweber/homelab/poke/internal/migrations"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates and returns a test database connection
func SetupTestDB(t *testing.T, testName string) (*sql.DB, func()) {
	t.Helper()
	dsn := NewTestDSN(testName)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps the shared in-memory database free of lock contention
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	}

	return db, cleanup
}

// SetupTestDBWithMigrations creates a test database and applies migs
func SetupTestDBWithMigrations(t *testing.T, testName string, migs []migrations.Migration) (*sql.DB, func()) {
	t.Helper()
	db, cleanup := SetupTestDB(t, testName)

	migrator := migrations.NewMigrator(db)
	for _, migration := range migs {
		migrator.AddMigration(migration)
	}
	if err := migrator.RunMigrations(); err != nil {
		cleanup()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db, cleanup
}
