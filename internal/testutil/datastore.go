package testutil

import (
	"fmt"
	"testing"

	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/migrations"
)

// NewTestDSN generates a DSN for an in-memory SQLite database for testing purposes.
// Foreign keys are enforced on every connection.
func NewTestDSN(testName string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", testName)
}

// NewPokeAPIDatastore returns a datastore with the move service schema applied
func NewPokeAPIDatastore(t *testing.T, testName string) *datastore.Datastore {
	t.Helper()
	db, cleanup := SetupTestDBWithMigrations(t, testName, migrations.GetPokeAPIMigrations())
	t.Cleanup(cleanup)
	return datastore.New(db)
}

// NewPokeUsersDatastore returns a datastore with the user service schema applied
func NewPokeUsersDatastore(t *testing.T, testName string) *datastore.Datastore {
	t.Helper()
	db, cleanup := SetupTestDBWithMigrations(t, testName, migrations.GetPokeUsersMigrations())
	t.Cleanup(cleanup)
	return datastore.New(db)
}
