package domain

import (
	"encoding/json"
	"sort"
)

// PositionKey identifies one position line item. It is the concatenation of
// condition ID, outcome index and asset ID joined by KeyDelimiter and is
// compared by exact string equality.
type PositionKey string

// KeyDelimiter separates the components of a PositionKey.
const KeyDelimiter = ":"

// NewPositionKey joins the three key components.
func NewPositionKey(conditionID, outcomeIndex, assetID string) PositionKey {
	return PositionKey(conditionID + KeyDelimiter + outcomeIndex + KeyDelimiter + assetID)
}

// Position is the canonical record kept for one open position.
type Position struct {
	Title   string  `json:"title"`
	Outcome string  `json:"outcome"`
	Size    float64 `json:"size"`
	Slug    string  `json:"slug"`
}

// Snapshot maps every open position of one account at one point in time.
type Snapshot map[PositionKey]Position

// SortedKeys returns the snapshot keys in lexicographic order.
func (s Snapshot) SortedKeys() []PositionKey {
	keys := make([]PositionKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RawPosition is a position record as returned by the positions endpoint.
// Every field is optional; Normalize applies the defaulting rules.
type RawPosition struct {
	ConditionID  *string
	OutcomeIndex json.RawMessage // any JSON type, nil when absent
	AssetID      *string
	Title        *string
	Outcome      *string
	Size         *float64 // nil when absent or not numeric
	Slug         *string
}

// Profile is a candidate returned by the profile search endpoint.
type Profile struct {
	ProxyWallet string
	Username    string
	UserName    string
	Name        string
	Pseudonym   string
}

// NameFields returns the name-like fields in match priority order.
func (p Profile) NameFields() []string {
	return []string{p.Username, p.UserName, p.Name, p.Pseudonym}
}

// ChangeKind classifies one entry of a ChangeSet.
type ChangeKind string

const (
	ChangeOpened  ChangeKind = "opened"
	ChangeUpdated ChangeKind = "updated"
	ChangeClosed  ChangeKind = "closed"
)

// ChangeSet is the result of comparing two snapshots.
type ChangeSet struct {
	// Initial is set when the previous snapshot was empty. No keys are
	// classified in that case.
	Initial bool
	Opened  []PositionKey
	Updated []PositionKey
	Closed  []PositionKey
}

// Empty reports whether the change set carries no opened, updated or closed
// entries.
func (c ChangeSet) Empty() bool {
	return len(c.Opened) == 0 && len(c.Updated) == 0 && len(c.Closed) == 0
}

// Count returns the total number of classified keys.
func (c ChangeSet) Count() int {
	return len(c.Opened) + len(c.Updated) + len(c.Closed)
}
