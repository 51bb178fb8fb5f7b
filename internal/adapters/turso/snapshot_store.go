package turso

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SnapshotStore keeps analytics snapshots as JSON documents in a
// single-row-per-name table. Each save replaces the whole document.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) (*SnapshotStore, error) {
	if _, err := db.Exec(createSnapshotsTable); err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, name string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (name, document, updated_at) VALUES (?, ?, ?)`,
		name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, name string, out any) error {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE name = ?`, name).Scan(&document)
	if err == sql.ErrNoRows {
		return fmt.Errorf("snapshot %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(document), out); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return nil
}
