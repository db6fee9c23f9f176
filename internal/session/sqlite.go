package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It is the default
// backend: a single file next to the bidder directory, no server required.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS nit_batches (
	id         TEXT PRIMARY KEY,
	nit_number TEXT NOT NULL UNIQUE,
	works      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS bid_rounds (
	id           TEXT PRIMARY KEY,
	batch_id     TEXT NOT NULL REFERENCES nit_batches(id) ON DELETE CASCADE,
	item_no      TEXT NOT NULL,
	bids         TEXT NOT NULL,
	committed_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (batch_id, item_no)
);

CREATE INDEX IF NOT EXISTS idx_nit_batches_nit_number ON nit_batches(nit_number);
CREATE INDEX IF NOT EXISTS idx_bid_rounds_batch_id ON bid_rounds(batch_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveBatch(ctx context.Context, batch *model.NITBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	worksJSON, err := json.Marshal(batch.Works)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal works")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	// Re-ingesting the same NIT replaces the batch and its rounds wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM nit_batches WHERE nit_number = ?`, batch.NITNumber,
	); err != nil {
		return eris.Wrapf(err, "sqlite: delete stale batch %s", batch.NITNumber)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO nit_batches (id, nit_number, works, created_at) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.NITNumber, string(worksJSON), batch.CreatedAt,
	); err != nil {
		return eris.Wrapf(err, "sqlite: insert batch %s", batch.NITNumber)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit batch")
}

func (s *SQLiteStore) GetBatch(ctx context.Context, nitNumber string) (*model.NITBatch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nit_number, works, created_at FROM nit_batches WHERE nit_number = ?`,
		nitNumber,
	)
	return scanBatch(row)
}

func (s *SQLiteStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.NITBatch, error) {
	query := `SELECT id, nit_number, works, created_at FROM nit_batches WHERE 1=1`
	var args []any

	if filter.NITNumber != "" {
		query += ` AND nit_number = ?`
		args = append(args, filter.NITNumber)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var batches []model.NITBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

func (s *SQLiteStore) SaveRound(ctx context.Context, round *model.BidRound) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CommittedAt.IsZero() {
		round.CommittedAt = time.Now().UTC()
	}

	bidsJSON, err := json.Marshal(round.Bids)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal bids")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bid_rounds (id, batch_id, item_no, bids, committed_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (batch_id, item_no) DO UPDATE SET
		   bids = excluded.bids, committed_at = excluded.committed_at`,
		round.ID, round.BatchID, round.ItemNo, string(bidsJSON), round.CommittedAt,
	)
	return eris.Wrapf(err, "sqlite: save round for item %s", round.ItemNo)
}

func (s *SQLiteStore) GetRound(ctx context.Context, batchID, itemNo string) (*model.BidRound, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds
		 WHERE batch_id = ? AND item_no = ?`,
		batchID, itemNo,
	)
	return scanRound(row)
}

func (s *SQLiteStore) ListRounds(ctx context.Context, batchID string) ([]model.BidRound, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds
		 WHERE batch_id = ? ORDER BY item_no`,
		batchID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list rounds")
	}
	defer rows.Close()

	var rounds []model.BidRound
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *r)
	}
	return rounds, eris.Wrap(rows.Err(), "sqlite: list rounds iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanBatch(row scannable) (*model.NITBatch, error) {
	var b model.NITBatch
	var worksJSON string

	err := row.Scan(&b.ID, &b.NITNumber, &worksJSON, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan batch")
	}
	if err := json.Unmarshal([]byte(worksJSON), &b.Works); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal works")
	}
	return &b, nil
}

func scanRound(row scannable) (*model.BidRound, error) {
	var r model.BidRound
	var bidsJSON string

	err := row.Scan(&r.ID, &r.BatchID, &r.ItemNo, &bidsJSON, &r.CommittedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan round")
	}
	if err := json.Unmarshal([]byte(bidsJSON), &r.Bids); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal bids")
	}
	return &r, nil
}
