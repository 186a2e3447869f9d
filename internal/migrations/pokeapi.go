package migrations

import (
	"database/sql"
)

// defaultPokeTypes is seeded in id order, so Normal is type 1
var defaultPokeTypes = []string{
	"Normal", "Fire", "Water", "Electric", "Grass", "Ice",
	"Fighting", "Poison", "Ground", "Flying", "Psychic", "Bug",
	"Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
}

// GetPokeAPIMigrations returns the migrations for the move service database
func GetPokeAPIMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_poke_tables",
			Up: func(tx *sql.Tx) error {
				return execAll(tx,
					`CREATE TABLE poke_types (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL UNIQUE,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE TABLE poke_moves (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL,
						effect TEXT NOT NULL,
						type_id INTEGER NOT NULL,
						category TEXT NOT NULL CHECK (category IN ('physical', 'special', 'status')),
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (type_id) REFERENCES poke_types(id)
					)`,
				)
			},
			Down: func(tx *sql.Tx) error {
				// Drop tables in reverse order due to foreign key constraints
				return execAll(tx,
					`DROP TABLE IF EXISTS poke_moves`,
					`DROP TABLE IF EXISTS poke_types`,
				)
			},
		},
		{
			Version: 2,
			Name:    "seed_poke_types",
			Up: func(tx *sql.Tx) error {
				for i, name := range defaultPokeTypes {
					if _, err := tx.Exec("INSERT OR IGNORE INTO poke_types (id, name) VALUES (?, ?)", i+1, name); err != nil {
						return err
					}
				}
				return nil
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DELETE FROM poke_types WHERE id <= ?", len(defaultPokeTypes))
				return err
			},
		},
		{
			Version: 3,
			Name:    "add_lookup_indices",
			Up: func(tx *sql.Tx) error {
				return execAll(tx,
					"CREATE INDEX IF NOT EXISTS idx_poke_moves_type_id ON poke_moves(type_id)",
					"CREATE INDEX IF NOT EXISTS idx_poke_moves_name ON poke_moves(name)",
				)
			},
			Down: func(tx *sql.Tx) error {
				return execAll(tx,
					"DROP INDEX IF EXISTS idx_poke_moves_type_id",
					"DROP INDEX IF EXISTS idx_poke_moves_name",
				)
			},
		},
	}
}
