package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// maxStateSize bounds how much of a state object is read.
const maxStateSize = 16 << 20

// StateStore implements domain.StateStore as a single JSON object.
type StateStore struct {
	reader domain.BlobReader
	writer domain.BlobWriter
	key    string
}

// NewStateStore creates a StateStore that keeps the document at key.
func NewStateStore(reader domain.BlobReader, writer domain.BlobWriter, key string) *StateStore {
	return &StateStore{reader: reader, writer: writer, key: key}
}

// Load fetches the state object. A missing object is an empty state.
func (s *StateStore) Load(ctx context.Context) (domain.State, error) {
	body, err := s.reader.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.State{}, nil
		}
		return domain.State{}, fmt.Errorf("s3blob: load state: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxStateSize))
	if err != nil {
		return domain.State{}, fmt.Errorf("s3blob: read state %s: %w", s.key, err)
	}

	state, err := domain.UnmarshalState(data)
	if err != nil {
		return domain.State{}, fmt.Errorf("s3blob: load state %s: %w", s.key, err)
	}
	return state, nil
}

// Save uploads the whole state document, replacing any previous version.
func (s *StateStore) Save(ctx context.Context, state domain.State) error {
	data, err := domain.MarshalState(state)
	if err != nil {
		return fmt.Errorf("s3blob: %w", err)
	}
	if err := s.writer.Put(ctx, s.key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("s3blob: save state: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.StateStore = (*StateStore)(nil)
