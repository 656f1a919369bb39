package tracker

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// Normalize maps raw position records to a keyed snapshot. Missing text
// fields become empty strings and a missing or non-finite size becomes zero. A later record
// with the same key replaces an earlier one.
func Normalize(raw []domain.RawPosition) domain.Snapshot {
	out := make(domain.Snapshot, len(raw))
	for _, r := range raw {
		key := domain.NewPositionKey(deref(r.ConditionID), outcomeIndexText(r.OutcomeIndex), deref(r.AssetID))
		pos := domain.Position{
			Title:   deref(r.Title),
			Outcome: deref(r.Outcome),
			Slug:    deref(r.Slug),
		}
		if r.Size != nil && !math.IsNaN(*r.Size) && !math.IsInf(*r.Size, 0) {
			pos.Size = *r.Size
		}
		out[key] = pos
	}
	return out
}

// outcomeIndexText renders the raw outcomeIndex for use in a key. Strings are
// unquoted, null and absent values are empty, anything else keeps its JSON
// text.
func outcomeIndexText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
