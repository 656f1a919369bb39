package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// StateStore implements domain.StateStore as a single Redis string holding the
// JSON state document. The key never expires.
type StateStore struct {
	rdb *redis.Client
	key string
}

// NewStateStore creates a StateStore that keeps the document at key.
func NewStateStore(c *Client, key string) *StateStore {
	return &StateStore{rdb: c.Underlying(), key: key}
}

// Load reads the state document. A missing key is an empty state.
func (s *StateStore) Load(ctx context.Context) (domain.State, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.State{}, nil
		}
		return domain.State{}, fmt.Errorf("redis: get state %s: %w", s.key, err)
	}

	state, err := domain.UnmarshalState(data)
	if err != nil {
		return domain.State{}, fmt.Errorf("redis: load state %s: %w", s.key, err)
	}
	return state, nil
}

// Save overwrites the state document.
func (s *StateStore) Save(ctx context.Context, state domain.State) error {
	data, err := domain.MarshalState(state)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set state %s: %w", s.key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.StateStore = (*StateStore)(nil)
