package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalState_LegacyDocument(t *testing.T) {
	doc := []byte(`{
		"proxyWallet": "0xabc",
		"positions": {
			"0xc:0:111": {"title": "Market", "outcome": "Yes", "size": 12.5, "slug": "market"}
		}
	}`)

	s, err := UnmarshalState(doc)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", s.ProxyWallet)
	assert.Equal(t, Position{Title: "Market", Outcome: "Yes", Size: 12.5, Slug: "market"}, s.Positions["0xc:0:111"])
}

func TestUnmarshalState_Blank(t *testing.T) {
	s, err := UnmarshalState([]byte("  \n"))
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
}

func TestUnmarshalState_Corrupt(t *testing.T) {
	s, err := UnmarshalState([]byte(`{"proxyWallet": `))
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.True(t, s.IsEmpty())
}

func TestMarshalState_RoundTrip(t *testing.T) {
	in := State{ProxyWallet: "0xabc", Positions: Snapshot{"a:0:b": {Size: 1}}}

	data, err := MarshalState(in)
	require.NoError(t, err)
	out, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSnapshot_SortedKeys(t *testing.T) {
	s := Snapshot{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []PositionKey{"a", "b", "c"}, s.SortedKeys())
}

func TestChangeSet_Empty(t *testing.T) {
	assert.True(t, ChangeSet{Initial: true}.Empty())
	assert.False(t, ChangeSet{Closed: []PositionKey{"x"}}.Empty())
}

func TestUnmarshalState_LegacyNoneOutcomeKeyIsOpaque(t *testing.T) {
	doc := []byte(`{"proxyWallet": "0xabc", "positions": {"0xc:None:111": {"size": 1}}}`)

	s, err := UnmarshalState(doc)
	require.NoError(t, err)
	assert.Contains(t, s.Positions, PositionKey("0xc:None:111"))
	assert.NotContains(t, s.Positions, NewPositionKey("0xc", "", "111"))
}
