package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

func sampleReport() Report {
	return Report{
		Handle: "kch123",
		Changes: domain.ChangeSet{
			Opened:  []domain.PositionKey{"B:1:y"},
			Updated: []domain.PositionKey{"A:0:x"},
			Closed:  []domain.PositionKey{"C:0:z"},
		},
		Previous: domain.Snapshot{
			"A:0:x": {Title: "Rain in Paris?", Outcome: "Yes", Size: 10, Slug: "rain-paris"},
			"C:0:z": {Title: "Old market", Outcome: "No", Size: 4},
		},
		Current: domain.Snapshot{
			"A:0:x": {Title: "Rain in Paris?", Outcome: "Yes", Size: 15, Slug: "rain-paris"},
			"B:1:y": {Title: "Snow in Rome?", Outcome: "No", Size: 3},
		},
	}
}

func TestReport_RenderOrderAndLinks(t *testing.T) {
	title, message, ok := sampleReport().Render()
	require.True(t, ok)

	assert.Equal(t, "Position changes by @kch123", title)
	lines := strings.Split(message, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "🟢 OPENED Snow in Rome? — No | size=3.0000 | https://polymarket.com/@kch123?tab=positions", lines[0])
	assert.Equal(t, "🟡 UPDATED Rain in Paris? — Yes | size=10.0000 → 15.0000 | https://polymarket.com/market/rain-paris", lines[1])
	assert.Equal(t, "🔴 CLOSED Old market — No | last size=4.0000", lines[2])
}

func TestReport_KindsFilter(t *testing.T) {
	r := sampleReport()
	r.Kinds = []domain.ChangeKind{domain.ChangeOpened}

	_, message, ok := r.Render()
	require.True(t, ok)
	assert.NotContains(t, message, "UPDATED")
	assert.NotContains(t, message, "CLOSED")
	assert.Contains(t, message, "OPENED")
}

func TestReport_NothingToRender(t *testing.T) {
	r := sampleReport()
	r.Changes = domain.ChangeSet{Closed: []domain.PositionKey{"C:0:z"}}
	r.Kinds = []domain.ChangeKind{domain.ChangeOpened}

	_, _, ok := r.Render()
	assert.False(t, ok)
}

func TestReport_CustomSiteURL(t *testing.T) {
	r := sampleReport()
	r.SiteURL = "https://example.test/"

	_, message, _ := r.Render()
	assert.Contains(t, message, "https://example.test/market/rain-paris")
	assert.Contains(t, message, "https://example.test/@kch123?tab=positions")
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{" Opened", "closed"})
	require.NoError(t, err)
	assert.Equal(t, []domain.ChangeKind{domain.ChangeOpened, domain.ChangeClosed}, kinds)

	_, err = ParseKinds([]string{"arb_detected"})
	assert.Error(t, err)
}
