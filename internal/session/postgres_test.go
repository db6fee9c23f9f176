package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgres_SaveBatch_ReplacesWholesale(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM nit_batches WHERE nit_number = \$1`).
		WithArgs("24/2023-24").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO nit_batches`).
		WithArgs(pgxmock.AnyArg(), "24/2023-24", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback() // deferred rollback after commit

	batch := &model.NITBatch{
		NITNumber: "24/2023-24",
		Works:     []model.WorkRecord{{ItemNo: "1", WorkName: "Electrification of GSS"}},
	}
	err := s.SaveBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.NotEmpty(t, batch.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetBatch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	works, err := json.Marshal([]model.WorkRecord{{ItemNo: "1", WorkName: "Electrification of GSS"}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, nit_number, works, created_at FROM nit_batches WHERE nit_number = \$1`).
		WithArgs("24/2023-24").
		WillReturnRows(pgxmock.NewRows([]string{"id", "nit_number", "works", "created_at"}).
			AddRow("batch-1", "24/2023-24", works, time.Now().UTC()))

	got, err := s.GetBatch(context.Background(), "24/2023-24")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", got.ID)
	require.Len(t, got.Works, 1)
	assert.Equal(t, "Electrification of GSS", got.Works[0].WorkName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetBatch_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, nit_number, works, created_at FROM nit_batches`).
		WithArgs("no-such-nit").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetBatch(context.Background(), "no-such-nit")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveRound_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(batch_id, item_no\)`).
		WithArgs(pgxmock.AnyArg(), "batch-1", "1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	round := &model.BidRound{
		BatchID: "batch-1",
		ItemNo:  "1",
		Bids:    model.BidSet{{BidderName: "M/s Sharma", BidAmount: 950_000}},
	}
	require.NoError(t, s.SaveRound(context.Background(), round))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetRound_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds`).
		WithArgs("batch-1", "9").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRound(context.Background(), "batch-1", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListRounds(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	bids, err := json.Marshal(model.BidSet{{BidderName: "M/s Sharma"}})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds`).
		WithArgs("batch-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "batch_id", "item_no", "bids", "committed_at"}).
			AddRow("round-1", "batch-1", "1", bids, time.Now().UTC()).
			AddRow("round-2", "batch-1", "2", bids, time.Now().UTC()))

	rounds, err := s.ListRounds(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "2", rounds[1].ItemNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}
