// Package storage provides snapshot store adapters over external key-value
// backends. Each run reads the previous snapshot once and writes the new one
// once; overwrite is at-least-once, there are no transactional guarantees.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	latestFile  = "latest.json"
	archiveDir  = "archive"
	archiveDate = "2006-01-02"
)

// FileStore keeps snapshots as JSON blobs in a data directory:
// latest.json plus archive/YYYY-MM-DD.json per archived run.
type FileStore struct {
	dir string
}

var _ ports.SnapshotStore = (*FileStore)(nil)

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, archiveDir), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadLatest reads the current snapshot, or ErrNoSnapshot if none exists.
func (s *FileStore) LoadLatest(_ context.Context) (domain.DigestSnapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, latestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DigestSnapshot{}, ports.ErrNoSnapshot
	}
	if err != nil {
		return domain.DigestSnapshot{}, fmt.Errorf("read latest snapshot: %w", err)
	}

	var snapshot domain.DigestSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.DigestSnapshot{}, fmt.Errorf("decode latest snapshot: %w", err)
	}
	return snapshot, nil
}

// SaveLatest overwrites the current snapshot atomically (temp file + rename).
func (s *FileStore) SaveLatest(_ context.Context, snapshot domain.DigestSnapshot) error {
	return s.write(filepath.Join(s.dir, latestFile), snapshot)
}

// Archive writes the snapshot under its generation date.
func (s *FileStore) Archive(_ context.Context, snapshot domain.DigestSnapshot) error {
	name := snapshot.GeneratedAt.UTC().Format(archiveDate) + ".json"
	return s.write(filepath.Join(s.dir, archiveDir, name), snapshot)
}

func (s *FileStore) write(path string, snapshot domain.DigestSnapshot) error {
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
