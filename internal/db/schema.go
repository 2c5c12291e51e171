package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The whole collection lives in a single
// named slot, serialized as JSON and overwritten in full on every mutation.
const schema = `
CREATE TABLE IF NOT EXISTS slots (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
