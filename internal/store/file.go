package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hall-management-backend/internal/hall"
)

// fileStore keeps the hall state in a single YAML document.
type fileStore struct {
	path string
}

// NewFileStore returns a gateway reading and writing the YAML file at path.
func NewFileStore(path string) hall.Gateway {
	return &fileStore{path: path}
}

// Load returns an empty snapshot when the file does not exist yet.
func (s *fileStore) Load(_ context.Context) (hall.Snapshot, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return hall.Snapshot{}, nil
	}
	if err != nil {
		return hall.Snapshot{}, err
	}
	defer f.Close()

	var snap hall.Snapshot
	if err := yaml.NewDecoder(f).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return hall.Snapshot{}, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	return snap, nil
}

// Save writes to a temporary file and renames it over the old one so a
// crash never leaves a half-written state file.
func (s *fileStore) Save(_ context.Context, snap hall.Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode hall state: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
