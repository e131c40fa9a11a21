package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/chainreport/internal/domain"
)

func TestHistoryStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "history.db")

	store, err := OpenHistory(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	now := time.Date(2024, 10, 7, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, []domain.HistoryEntry{
		{RunID: "run-1", Position: 0, PostID: "100", Text: "first", PostedAt: now},
		{RunID: "run-1", Position: 1, PostID: "101", ReplyTo: "100", Text: "second", PostedAt: now.Add(10 * time.Second)},
	}))
	require.NoError(t, store.Append(ctx, nil))

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "101", got[0].PostID)
	assert.Equal(t, "100", got[0].ReplyTo)
	assert.Equal(t, "first", got[1].Text)
	assert.True(t, got[1].PostedAt.Equal(now))

	limited, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestHistoryStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := OpenHistory(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, []domain.HistoryEntry{{RunID: "r", PostID: "1", Text: "t", PostedAt: time.Now()}}))
	require.NoError(t, store.Close())

	store, err = OpenHistory(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
