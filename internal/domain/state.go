package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State is everything persisted between runs. The document layout
// (proxyWallet, positions) matches the state.json written by earlier
// deployments, so such files load. Keys those deployments built from an
// absent outcomeIndex carry the text "None" where NewPositionKey writes an
// empty component; those positions read as closed and reopened once.
type State struct {
	ProxyWallet string   `json:"proxyWallet,omitempty"`
	Positions   Snapshot `json:"positions,omitempty"`
}

// IsEmpty reports whether nothing has been persisted yet.
func (s State) IsEmpty() bool {
	return s.ProxyWallet == "" && len(s.Positions) == 0
}

// MarshalState encodes a state document.
func MarshalState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a state document. Blank input decodes to an empty
// State; malformed input yields an error wrapping ErrCorruptState.
func UnmarshalState(data []byte) (State, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return State{}, nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return s, nil
}
