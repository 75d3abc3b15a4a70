package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if absent. It runs inside a single transaction
// so the process never starts serving with half the tables in place.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	if _, err := tx.Exec(schema); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply schema: %w", err)
	}
	return tx.Commit()
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    discord_snowflake TEXT    NOT NULL UNIQUE,
    discord_username  TEXT    NOT NULL,
    created_utc       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_utc       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_discord_snowflake ON users(discord_snowflake);

CREATE TABLE IF NOT EXISTS redirects (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    key           TEXT    NOT NULL,
    url           TEXT    NOT NULL,
    redirect_host TEXT    NOT NULL,
    visits        INTEGER NOT NULL DEFAULT 0,
    created_by    INTEGER NOT NULL,
    created_utc   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_utc   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(key, redirect_host),
    FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_redirects_key_host ON redirects(key, redirect_host);
`
