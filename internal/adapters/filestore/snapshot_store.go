package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/util"
)

// SnapshotStore persists analytics snapshots as one JSON file per
// document name. Every save rewrites the whole file; the documents are
// small and self-contained, so partial writes are not worth the
// bookkeeping.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore places snapshots under the XDG data directory.
func NewSnapshotStore() (*SnapshotStore, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}
	return NewSnapshotStoreAt(filepath.Join(baseDir, "snapshots"))
}

// NewSnapshotStoreAt uses an explicit directory. Tests point this at a
// temp dir.
func NewSnapshotStoreAt(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshots directory: %w", err)
	}
	return &SnapshotStore{baseDir: dir}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", name, err)
	}

	// Write through a temp file so a crash never leaves a torn snapshot.
	path := s.getPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, name string, out any) error {
	data, err := os.ReadFile(s.getPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("snapshot %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) getPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}
