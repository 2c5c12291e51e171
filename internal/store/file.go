package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mlovrec/curio/internal/model"
)

// FileRepository persists the collection as a single JSON file, for setups
// that don't want a database file next to the binary.
type FileRepository struct {
	path string
	log  *slog.Logger
}

// NewFileRepository creates a repository writing to the given path.
func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	return &FileRepository{path: path, log: logger.With("repository", "file")}
}

// Load reads the collection file. A missing or undecodable file yields an
// empty collection.
func (r *FileRepository) Load(_ context.Context) ([]model.Item, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection file: %w", err)
	}

	return decodeEnvelope(data, r.log), nil
}

// SaveAll overwrites the collection file. The write goes through a temp
// file and a rename so a crash mid-write leaves the previous state intact.
func (r *FileRepository) SaveAll(_ context.Context, items []model.Item) error {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".curio-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing collection file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing collection file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing collection file: %w", err)
	}
	return nil
}
