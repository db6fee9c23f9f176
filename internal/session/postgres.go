package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which keeps the postgres store testable without a live server.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool, for offices that share one
// tender workspace across machines.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS nit_batches (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	nit_number TEXT NOT NULL UNIQUE,
	works      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bid_rounds (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	batch_id     TEXT NOT NULL REFERENCES nit_batches(id) ON DELETE CASCADE,
	item_no      TEXT NOT NULL,
	bids         JSONB NOT NULL,
	committed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (batch_id, item_no)
);

CREATE INDEX IF NOT EXISTS idx_nit_batches_nit_number ON nit_batches(nit_number);
CREATE INDEX IF NOT EXISTS idx_bid_rounds_batch_id ON bid_rounds(batch_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) SaveBatch(ctx context.Context, batch *model.NITBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	worksJSON, err := json.Marshal(batch.Works)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal works")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM nit_batches WHERE nit_number = $1`, batch.NITNumber,
	); err != nil {
		return eris.Wrapf(err, "postgres: delete stale batch %s", batch.NITNumber)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO nit_batches (id, nit_number, works, created_at) VALUES ($1, $2, $3, $4)`,
		batch.ID, batch.NITNumber, worksJSON, batch.CreatedAt,
	); err != nil {
		return eris.Wrapf(err, "postgres: insert batch %s", batch.NITNumber)
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit batch")
}

func (s *PostgresStore) GetBatch(ctx context.Context, nitNumber string) (*model.NITBatch, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, nit_number, works, created_at FROM nit_batches WHERE nit_number = $1`,
		nitNumber,
	)
	return scanPgBatch(row)
}

func (s *PostgresStore) ListBatches(ctx context.Context, filter BatchFilter) ([]model.NITBatch, error) {
	query := `SELECT id, nit_number, works, created_at FROM nit_batches`
	var args []any

	if filter.NITNumber != "" {
		query += ` WHERE nit_number = $1`
		args = append(args, filter.NITNumber)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + itoaArg(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoaArg(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var batches []model.NITBatch
	for rows.Next() {
		b, err := scanPgBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, *b)
	}
	return batches, eris.Wrap(rows.Err(), "postgres: list batches iterate")
}

func (s *PostgresStore) SaveRound(ctx context.Context, round *model.BidRound) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CommittedAt.IsZero() {
		round.CommittedAt = time.Now().UTC()
	}

	bidsJSON, err := json.Marshal(round.Bids)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal bids")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO bid_rounds (id, batch_id, item_no, bids, committed_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (batch_id, item_no) DO UPDATE SET
		   bids = excluded.bids, committed_at = excluded.committed_at`,
		round.ID, round.BatchID, round.ItemNo, bidsJSON, round.CommittedAt,
	)
	return eris.Wrapf(err, "postgres: save round for item %s", round.ItemNo)
}

func (s *PostgresStore) GetRound(ctx context.Context, batchID, itemNo string) (*model.BidRound, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds
		 WHERE batch_id = $1 AND item_no = $2`,
		batchID, itemNo,
	)
	return scanPgRound(row)
}

func (s *PostgresStore) ListRounds(ctx context.Context, batchID string) ([]model.BidRound, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, batch_id, item_no, bids, committed_at FROM bid_rounds
		 WHERE batch_id = $1 ORDER BY item_no`,
		batchID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list rounds")
	}
	defer rows.Close()

	var rounds []model.BidRound
	for rows.Next() {
		r, err := scanPgRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *r)
	}
	return rounds, eris.Wrap(rows.Err(), "postgres: list rounds iterate")
}

// helpers

func itoaArg(n int) string {
	return strconv.Itoa(n)
}

func scanPgBatch(row pgx.Row) (*model.NITBatch, error) {
	var b model.NITBatch
	var worksJSON []byte

	err := row.Scan(&b.ID, &b.NITNumber, &worksJSON, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan batch")
	}
	if err := json.Unmarshal(worksJSON, &b.Works); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal works")
	}
	return &b, nil
}

func scanPgRound(row pgx.Row) (*model.BidRound, error) {
	var r model.BidRound
	var bidsJSON []byte

	err := row.Scan(&r.ID, &r.BatchID, &r.ItemNo, &bidsJSON, &r.CommittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan round")
	}
	if err := json.Unmarshal(bidsJSON, &r.Bids); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal bids")
	}
	return &r, nil
}
