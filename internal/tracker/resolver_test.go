package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

func TestResolveIdentifier_NameMatchBeatsFirstCandidate(t *testing.T) {
	profiles := []domain.Profile{
		{Name: "bob", ProxyWallet: "0xB"},
		{Username: "kch123", ProxyWallet: "0xA"},
	}

	wallet, err := ResolveIdentifier("kch123", profiles)
	require.NoError(t, err)
	assert.Equal(t, "0xA", wallet)
}

func TestResolveIdentifier_CaseInsensitiveSubstring(t *testing.T) {
	profiles := []domain.Profile{
		{Name: "someone else", ProxyWallet: "0x1"},
		{Pseudonym: "The-KCH123-Account", ProxyWallet: "0x2"},
	}

	wallet, err := ResolveIdentifier("Kch123", profiles)
	require.NoError(t, err)
	assert.Equal(t, "0x2", wallet)
}

func TestResolveIdentifier_SkipsMatchWithoutWallet(t *testing.T) {
	profiles := []domain.Profile{
		{Username: "kch123"},
		{UserName: "kch123_alt", ProxyWallet: "0xC"},
	}

	wallet, err := ResolveIdentifier("kch123", profiles)
	require.NoError(t, err)
	assert.Equal(t, "0xC", wallet)
}

func TestResolveIdentifier_FallbackToFirstWallet(t *testing.T) {
	profiles := []domain.Profile{
		{Name: "alice"},
		{Name: "bob", ProxyWallet: "0xB"},
		{Name: "carol", ProxyWallet: "0xC"},
	}

	wallet, err := ResolveIdentifier("kch123", profiles)
	require.NoError(t, err)
	assert.Equal(t, "0xB", wallet)
}

func TestResolveIdentifier_NotFound(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		_, err := ResolveIdentifier("kch123", nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no wallets", func(t *testing.T) {
		_, err := ResolveIdentifier("kch123", []domain.Profile{{Username: "kch123"}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "@kch123")
	})
}
