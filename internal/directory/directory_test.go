package directory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwd-tools/tender-cli/internal/model"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bidders.json")
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	d, err := Open(tempPath(t))
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestOpen_CorruptFile(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestCommit_InsertsAndUpdates(t *testing.T) {
	path := tempPath(t)
	d, err := Open(path)
	require.NoError(t, err)

	bids := model.BidSet{
		{BidderName: "M/s Sharma", BidderAddress: "Udaipur"},
		{BidderName: "M/s Verma", BidderAddress: "Jaipur"},
	}
	require.NoError(t, d.Commit(bids, "15-01-24"))

	e, ok := d.Get("M/s Sharma")
	require.True(t, ok)
	assert.Equal(t, "Udaipur", e.Address)
	assert.Equal(t, "15-01-24", e.DateAdded)
	assert.Equal(t, 1, e.TotalTenders)

	// A later round bumps the count and refreshes last-used but keeps
	// the original date added.
	require.NoError(t, d.Commit(model.BidSet{{BidderName: "M/s Sharma"}}, "20-03-24"))

	e, _ = d.Get("M/s Sharma")
	assert.Equal(t, 2, e.TotalTenders)
	assert.Equal(t, "20-03-24", e.LastUsed)
	assert.Equal(t, "15-01-24", e.DateAdded)

	// The file on disk matches what a fresh open sees.
	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())
	e, ok = reopened.Get("M/s Verma")
	require.True(t, ok)
	assert.Equal(t, "Jaipur", e.Address)
}

func TestCommit_PersistedShape(t *testing.T) {
	path := tempPath(t)
	d, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d.Commit(model.BidSet{{BidderName: "M/s Sharma", BidderAddress: "Udaipur"}}, "15-01-24"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]Entry
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "M/s Sharma")
	assert.Equal(t, "Udaipur", decoded["M/s Sharma"].Address)
}

func TestSearchAndSuggest(t *testing.T) {
	d, err := Open(tempPath(t))
	require.NoError(t, err)
	require.NoError(t, d.Commit(model.BidSet{
		{BidderName: "M/s Sharma Electricals"},
		{BidderName: "M/s Sharma & Sons"},
		{BidderName: "M/s Verma"},
	}, "15-01-24"))

	assert.Equal(t, []string{"M/s Sharma & Sons", "M/s Sharma Electricals"}, d.Search("sharma"))
	assert.Empty(t, d.Search("gupta"))

	got := d.Suggest("m/s sharma", 1)
	assert.Equal(t, []string{"M/s Sharma & Sons"}, got)

	assert.Equal(t, []string{"M/s Sharma & Sons", "M/s Sharma Electricals", "M/s Verma"}, d.Names())
}

func TestSummary(t *testing.T) {
	d, err := Open(tempPath(t))
	require.NoError(t, err)

	s := d.Summary()
	assert.Equal(t, 0, s.TotalBidders)

	require.NoError(t, d.Commit(model.BidSet{{BidderName: "A"}, {BidderName: "B"}}, "15-01-24"))
	require.NoError(t, d.Commit(model.BidSet{{BidderName: "A"}}, "20-03-24"))

	s = d.Summary()
	assert.Equal(t, 2, s.TotalBidders)
	assert.Equal(t, "A", s.MostUsed)
	assert.Equal(t, "20-03-24", s.LastUpdated)
}
