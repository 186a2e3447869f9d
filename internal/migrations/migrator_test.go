package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Logf("Warning: failed to close test database: %v", closeErr)
		}
	})
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestMigrator_RunPokeAPIMigrations(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RunPokeAPIMigrations")

	migrator := NewMigrator(db)
	for _, migration := range GetPokeAPIMigrations() {
		migrator.AddMigration(migration)
	}

	err := migrator.RunMigrations()
	require.NoError(t, err)

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	assert.True(t, tableExists(t, db, "poke_types"))
	assert.True(t, tableExists(t, db, "poke_moves"))
	assert.True(t, tableExists(t, db, "schema_migrations"))

	// Seeded types keep their canonical ids
	var name string
	err = db.QueryRow("SELECT name FROM poke_types WHERE id = 1").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "Normal", name)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM poke_types").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(defaultPokeTypes), count)

	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 3 AND name = 'add_lookup_indices'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrator_RunPokeUsersMigrations(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RunPokeUsersMigrations")

	migrator := NewMigrator(db)
	for _, migration := range GetPokeUsersMigrations() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations())

	assert.True(t, tableExists(t, db, "users"))
	assert.False(t, tableExists(t, db, "poke_moves"))

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestMigrator_RunMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t, "TestMigrator_RunMigrationsIsIdempotent")

	migrator := NewMigrator(db)
	for _, migration := range GetPokeAPIMigrations() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations())
	require.NoError(t, migrator.RunMigrations())

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMigrator_AddMigration(t *testing.T) {
	db := openTestDB(t, "TestMigrator_AddMigration")

	migrator := NewMigrator(db)

	// Add migrations out of order
	migrator.AddMigration(Migration{Version: 3, Name: "third"})
	migrator.AddMigration(Migration{Version: 1, Name: "first"})
	migrator.AddMigration(Migration{Version: 2, Name: "second"})

	// Verify they are sorted
	migrations := migrator.GetMigrations()
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Equal(t, int64(3), migrations[2].Version)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openTestDB(t, "TestMigrator_FailedMigrationIsNotRecorded")

	migrator := NewMigrator(db)
	migrator.AddMigration(Migration{
		Version: 1,
		Name:    "create_widgets",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, "CREATE TABLE widgets (id INTEGER PRIMARY KEY)")
		},
	})
	migrator.AddMigration(Migration{
		Version: 2,
		Name:    "broken",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec("CREATE TABLE gadgets (id INTEGER PRIMARY KEY)"); err != nil {
				return err
			}
			return errors.New("boom")
		},
	})

	err := migrator.RunMigrations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migration 2 (broken)")

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// The failed migration's DDL was rolled back with its transaction
	assert.True(t, tableExists(t, db, "widgets"))
	assert.False(t, tableExists(t, db, "gadgets"))
}

func TestMigrator_Rollback(t *testing.T) {
	db := openTestDB(t, "TestMigrator_Rollback")

	migrator := NewMigrator(db)
	for _, migration := range GetPokeUsersMigrations() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations())
	require.True(t, tableExists(t, db, "users"))

	require.NoError(t, migrator.Rollback())
	assert.False(t, tableExists(t, db, "users"))

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	// Nothing left to roll back
	assert.NoError(t, migrator.Rollback())
}
