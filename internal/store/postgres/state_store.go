package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// StateStore implements domain.StateStore as one tracker_state row per
// tracked handle.
type StateStore struct {
	pool   *pgxpool.Pool
	handle string
}

// NewStateStore creates a StateStore for the given handle.
func NewStateStore(pool *pgxpool.Pool, handle string) *StateStore {
	return &StateStore{pool: pool, handle: handle}
}

// Load reads the handle's row. A missing row is an empty state.
func (s *StateStore) Load(ctx context.Context) (domain.State, error) {
	const query = `SELECT proxy_wallet, positions FROM tracker_state WHERE handle = $1`

	var (
		state     domain.State
		positions []byte
	)
	err := s.pool.QueryRow(ctx, query, s.handle).Scan(&state.ProxyWallet, &positions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.State{}, nil
		}
		return domain.State{}, fmt.Errorf("postgres: load state %s: %w", s.handle, err)
	}

	snap, err := decodeSnapshot(positions)
	if err != nil {
		return domain.State{}, fmt.Errorf("postgres: load state %s: %w", s.handle, err)
	}
	state.Positions = snap
	return state, nil
}

// Save upserts the handle's row, replacing wallet and positions wholesale.
func (s *StateStore) Save(ctx context.Context, state domain.State) error {
	positions, err := encodeSnapshot(state.Positions)
	if err != nil {
		return fmt.Errorf("postgres: save state %s: %w", s.handle, err)
	}

	const query = `
		INSERT INTO tracker_state (handle, proxy_wallet, positions, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (handle) DO UPDATE SET
			proxy_wallet = EXCLUDED.proxy_wallet,
			positions    = EXCLUDED.positions,
			updated_at   = NOW()`

	if _, err := s.pool.Exec(ctx, query, s.handle, state.ProxyWallet, positions); err != nil {
		return fmt.Errorf("postgres: save state %s: %w", s.handle, err)
	}
	return nil
}

func encodeSnapshot(snap domain.Snapshot) ([]byte, error) {
	if snap == nil {
		snap = domain.Snapshot{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}
	return data, nil
}

// decodeSnapshot turns the positions column back into a snapshot. An empty
// object decodes to a nil snapshot so an empty row reads as a first run.
func decodeSnapshot(data []byte) (domain.Snapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: positions: %v", domain.ErrCorruptState, err)
	}
	if len(snap) == 0 {
		return nil, nil
	}
	return snap, nil
}

// Compile-time interface check.
var _ domain.StateStore = (*StateStore)(nil)
