// Package file implements domain.StateStore on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// StateStore keeps the state document in a single JSON file.
type StateStore struct {
	path string
}

// NewStateStore creates a StateStore backed by the file at path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the state file. A missing file is an empty state.
func (s *StateStore) Load(_ context.Context) (domain.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.State{}, nil
		}
		return domain.State{}, fmt.Errorf("file: read state %s: %w", s.path, err)
	}

	state, err := domain.UnmarshalState(data)
	if err != nil {
		return domain.State{}, fmt.Errorf("file: load state %s: %w", s.path, err)
	}
	return state, nil
}

// Save writes the state to a temporary file in the same directory and renames
// it over the target, so readers only ever see a complete document.
func (s *StateStore) Save(_ context.Context, state domain.State) error {
	data, err := domain.MarshalState(state)
	if err != nil {
		return fmt.Errorf("file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create state dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file: sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file: replace state %s: %w", s.path, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.StateStore = (*StateStore)(nil)
