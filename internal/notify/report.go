package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// DefaultSiteURL is the public Polymarket site used for links.
const DefaultSiteURL = "https://polymarket.com"

// AllKinds lists every change kind in report order.
var AllKinds = []domain.ChangeKind{domain.ChangeOpened, domain.ChangeUpdated, domain.ChangeClosed}

// Report is everything needed to render one change notification.
type Report struct {
	Handle   string
	SiteURL  string
	Changes  domain.ChangeSet
	Previous domain.Snapshot
	Current  domain.Snapshot
	// Kinds restricts which change kinds are rendered. Empty means all.
	Kinds []domain.ChangeKind
}

// Render formats the report. The title names the tracked handle; the message
// carries one line per opened position, then per updated position, then per
// closed position. ok is false when no line survives the Kinds filter.
func (r Report) Render() (title, message string, ok bool) {
	var lines []string

	if r.includes(domain.ChangeOpened) {
		for _, k := range r.Changes.Opened {
			p := r.Current[k]
			lines = append(lines, fmt.Sprintf("🟢 OPENED %s — %s | size=%.4f | %s",
				p.Title, p.Outcome, p.Size, r.link(p.Slug)))
		}
	}
	if r.includes(domain.ChangeUpdated) {
		for _, k := range r.Changes.Updated {
			before, after := r.Previous[k], r.Current[k]
			lines = append(lines, fmt.Sprintf("🟡 UPDATED %s — %s | size=%.4f → %.4f | %s",
				after.Title, after.Outcome, before.Size, after.Size, r.link(after.Slug)))
		}
	}
	if r.includes(domain.ChangeClosed) {
		for _, k := range r.Changes.Closed {
			p := r.Previous[k]
			lines = append(lines, fmt.Sprintf("🔴 CLOSED %s — %s | last size=%.4f",
				p.Title, p.Outcome, p.Size))
		}
	}

	if len(lines) == 0 {
		return "", "", false
	}
	return fmt.Sprintf("Position changes by @%s", r.Handle), strings.Join(lines, "\n"), true
}

func (r Report) includes(kind domain.ChangeKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// link points at the market page when the slug is known and at the tracked
// profile's positions tab otherwise.
func (r Report) link(slug string) string {
	site := strings.TrimRight(r.SiteURL, "/")
	if site == "" {
		site = DefaultSiteURL
	}
	if slug != "" {
		return site + "/market/" + url.PathEscape(slug)
	}
	return site + "/@" + url.PathEscape(r.Handle) + "?tab=positions"
}

// ParseKinds converts configured event names to change kinds. Names are
// matched case-insensitively; an unknown name is an error.
func ParseKinds(names []string) ([]domain.ChangeKind, error) {
	kinds := make([]domain.ChangeKind, 0, len(names))
	for _, n := range names {
		kind := domain.ChangeKind(strings.ToLower(strings.TrimSpace(n)))
		switch kind {
		case domain.ChangeOpened, domain.ChangeUpdated, domain.ChangeClosed:
			kinds = append(kinds, kind)
		default:
			return nil, fmt.Errorf("notify: unknown event %q", n)
		}
	}
	return kinds, nil
}
