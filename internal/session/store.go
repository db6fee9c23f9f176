// Package session persists the tender workspace between CLI invocations:
// ingested NIT batches and the bid rounds committed against their work items.
package session

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/model"
)

// ErrNotFound is returned when a batch or bid round does not exist.
var ErrNotFound = eris.New("session: not found")

// BatchFilter specifies criteria for listing batches.
type BatchFilter struct {
	NITNumber string `json:"nit_number,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the tender workspace.
type Store interface {
	// Batches. SaveBatch replaces any existing batch with the same NIT
	// number wholesale, along with its bid rounds.
	SaveBatch(ctx context.Context, batch *model.NITBatch) error
	GetBatch(ctx context.Context, nitNumber string) (*model.NITBatch, error)
	ListBatches(ctx context.Context, filter BatchFilter) ([]model.NITBatch, error)

	// Bid rounds. SaveRound replaces the round for the same batch and item.
	SaveRound(ctx context.Context, round *model.BidRound) error
	GetRound(ctx context.Context, batchID, itemNo string) (*model.BidRound, error)
	ListRounds(ctx context.Context, batchID string) ([]model.BidRound, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
