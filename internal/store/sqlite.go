package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mlovrec/curio/internal/model"
)

// slotKey is the single named slot holding the serialized collection.
const slotKey = "inventory"

// envelopeVersion is the persisted payload version. Unknown versions load
// as empty rather than guessing at a migration.
const envelopeVersion = 1

type envelope struct {
	Version int          `json:"version"`
	Items   []model.Item `json:"items"`
}

// SQLiteRepository persists the collection as one JSON row in the slots
// table.
type SQLiteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteRepository wraps an open database handle.
func NewSQLiteRepository(db *sql.DB, logger *slog.Logger) *SQLiteRepository {
	return &SQLiteRepository{db: db, log: logger.With("repository", "sqlite")}
}

// Load reads the inventory slot. An absent row or an undecodable payload
// yields an empty collection.
func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Item, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE key = ?`, slotKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading inventory slot: %w", err)
	}

	return decodeEnvelope([]byte(value), r.log), nil
}

// SaveAll overwrites the inventory slot with the full collection.
func (r *SQLiteRepository) SaveAll(ctx context.Context, items []model.Item) error {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		slotKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("writing inventory slot: %w", err)
	}
	return nil
}

// decodeEnvelope decodes a persisted slot payload. Malformed payloads and
// unknown versions log a warning and load as an empty collection.
func decodeEnvelope(data []byte, log *slog.Logger) []model.Item {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn("inventory slot is malformed, starting empty", "error", err)
		return nil
	}
	if env.Version != envelopeVersion {
		log.Warn("inventory slot has unknown version, starting empty", "version", env.Version)
		return nil
	}
	return env.Items
}
