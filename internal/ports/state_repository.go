package ports

import (
	"context"

	"github.com/bft-labs/chainreport/internal/domain"
)

// StateRepository remembers the last published thread.
type StateRepository interface {
	// Load returns an empty state and nil error if nothing was saved yet.
	Load(ctx context.Context) (domain.PublishState, error)

	// Save persists state atomically.
	Save(ctx context.Context, state domain.PublishState) error
}

// HistoryStore records every published post.
type HistoryStore interface {
	Append(ctx context.Context, entries []domain.HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Close() error
}
