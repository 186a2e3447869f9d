package migrations

import (
	"database/sql"
)

// GetPokeUsersMigrations returns the migrations for the user service database
func GetPokeUsersMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_table",
			Up: func(tx *sql.Tx) error {
				return execAll(tx,
					`CREATE TABLE users (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						username TEXT NOT NULL UNIQUE,
						email TEXT NOT NULL DEFAULT '',
						hashed_password TEXT NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)`,
					"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
				)
			},
			Down: func(tx *sql.Tx) error {
				return execAll(tx, `DROP TABLE IF EXISTS users`)
			},
		},
	}
}
