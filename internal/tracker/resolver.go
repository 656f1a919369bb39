// Package tracker holds the pure decision logic of the position watcher:
// identity resolution over search results, normalization of raw position
// records, and the snapshot diff.
package tracker

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// ResolveIdentifier picks the proxy wallet for handle out of the profiles a
// search returned, in the order the search returned them.
//
// The first profile with a wallet whose username, userName, name or pseudonym
// contains handle (case-insensitive) wins. When no name matches, the first
// profile carrying any wallet is used. Without any wallet the call fails with
// domain.ErrNotFound.
func ResolveIdentifier(handle string, profiles []domain.Profile) (string, error) {
	needle := strings.ToLower(handle)

	for _, p := range profiles {
		if p.ProxyWallet == "" {
			continue
		}
		for _, name := range p.NameFields() {
			if name != "" && strings.Contains(strings.ToLower(name), needle) {
				return p.ProxyWallet, nil
			}
		}
	}

	for _, p := range profiles {
		if p.ProxyWallet != "" {
			return p.ProxyWallet, nil
		}
	}

	return "", fmt.Errorf("tracker: resolve proxy wallet for @%s: %w", handle, domain.ErrNotFound)
}
