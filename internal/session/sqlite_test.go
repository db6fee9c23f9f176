package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwd-tools/tender-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "tender.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testBatch(nit string) *model.NITBatch {
	return &model.NITBatch{
		NITNumber: nit,
		Works: []model.WorkRecord{
			{ItemNo: "1", WorkName: "Electrification of GSS", NITNumber: nit, EstimatedCost: 1_250_000},
			{ItemNo: "2", WorkName: "Street light maintenance", NITNumber: nit, EstimatedCost: 200_000},
		},
	}
}

func TestSQLite_SaveAndGetBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := testBatch("24/2023-24")
	require.NoError(t, s.SaveBatch(ctx, batch))
	assert.NotEmpty(t, batch.ID)

	got, err := s.GetBatch(ctx, "24/2023-24")
	require.NoError(t, err)
	assert.Equal(t, batch.ID, got.ID)
	require.Len(t, got.Works, 2)
	assert.Equal(t, "Electrification of GSS", got.Works[0].WorkName)
	assert.Equal(t, 1_250_000.0, got.Works[0].EstimatedCost)
}

func TestSQLite_GetBatch_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBatch(context.Background(), "no-such-nit")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ReingestReplacesBatchAndRounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testBatch("24/2023-24")
	require.NoError(t, s.SaveBatch(ctx, first))
	require.NoError(t, s.SaveRound(ctx, &model.BidRound{
		BatchID: first.ID,
		ItemNo:  "1",
		Bids:    model.BidSet{{BidderName: "M/s Sharma", BidAmount: 950_000}},
	}))

	second := testBatch("24/2023-24")
	second.Works = second.Works[:1]
	require.NoError(t, s.SaveBatch(ctx, second))

	got, err := s.GetBatch(ctx, "24/2023-24")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Len(t, got.Works, 1)

	// Rounds of the replaced batch are gone with it.
	rounds, err := s.ListRounds(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestSQLite_SaveRoundUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := testBatch("24/2023-24")
	require.NoError(t, s.SaveBatch(ctx, batch))

	round := &model.BidRound{
		BatchID: batch.ID,
		ItemNo:  "1",
		Bids:    model.BidSet{{BidderName: "M/s Sharma", Percentage: -5, BidAmount: 950_000}},
	}
	require.NoError(t, s.SaveRound(ctx, round))

	// Committing again for the same item replaces the bid set.
	replacement := &model.BidRound{
		BatchID: batch.ID,
		ItemNo:  "1",
		Bids: model.BidSet{
			{BidderName: "M/s Sharma", Percentage: -5, BidAmount: 950_000},
			{BidderName: "M/s Verma", Percentage: 2, BidAmount: 1_020_000},
		},
	}
	require.NoError(t, s.SaveRound(ctx, replacement))

	got, err := s.GetRound(ctx, batch.ID, "1")
	require.NoError(t, err)
	require.Len(t, got.Bids, 2)
	assert.Equal(t, "M/s Verma", got.Bids[1].BidderName)
}

func TestSQLite_GetRound_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRound(context.Background(), "no-batch", "1")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListBatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, testBatch("24/2023-24")))
	require.NoError(t, s.SaveBatch(ctx, testBatch("25/2023-24")))

	all, err := s.ListBatches(ctx, BatchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := s.ListBatches(ctx, BatchFilter{NITNumber: "25/2023-24"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "25/2023-24", filtered[0].NITNumber)

	limited, err := s.ListBatches(ctx, BatchFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_ListRounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := testBatch("24/2023-24")
	require.NoError(t, s.SaveBatch(ctx, batch))

	for _, item := range []string{"2", "1"} {
		require.NoError(t, s.SaveRound(ctx, &model.BidRound{
			BatchID: batch.ID,
			ItemNo:  item,
			Bids:    model.BidSet{{BidderName: "M/s Sharma"}},
		}))
	}

	rounds, err := s.ListRounds(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	// Ordered by item number.
	assert.Equal(t, "1", rounds[0].ItemNo)
	assert.Equal(t, "2", rounds[1].ItemNo)
}
