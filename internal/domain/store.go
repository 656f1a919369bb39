package domain

import "context"

// StateStore loads and persists the tracker state between runs.
//
// Load returns an empty State and a nil error when nothing has been persisted.
// A document that exists but cannot be decoded yields an empty State and an
// error wrapping ErrCorruptState. Save overwrites the whole document.
type StateStore interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
}
