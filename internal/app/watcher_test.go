package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/chainreport/internal/adapters/fs"
	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/pkg/thread"
)

func TestWatcher_PublishesOnWrite(t *testing.T) {
	dir := t.TempDir()
	files := fs.NewReportFiles(dir, "")
	state := fs.NewStateFileRepository(dir)
	poster := &fakePoster{posted: make(chan struct{}, 10)}

	pub := NewPublisher(PublisherConfig{}, files, poster, thread.NoPacer{}, state, nil, mockLogger{}, nil)
	w := NewWatcher(WatcherConfig{Path: files.ReportPath(), Debounce: 20 * time.Millisecond}, pub, mockLogger{})
	assert.True(t, pub.cfg.SkipDuplicates)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not ready")
	}

	require.NoError(t, files.SaveReport(domain.Report{Answer: "Moonchain had a great day."}))

	select {
	case <-poster.posted:
	case <-time.After(5 * time.Second):
		t.Fatal("report was not published")
	}

	// Rewriting the same answer does not post again.
	require.NoError(t, files.SaveReport(domain.Report{Answer: "Moonchain had a great day."}))
	time.Sleep(200 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	calls := poster.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Moonchain had a great day.", calls[0].Text)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	pub := NewPublisher(PublisherConfig{}, newMemStore(), &fakePoster{}, thread.NoPacer{}, nil, nil, mockLogger{}, nil)
	w := NewWatcher(WatcherConfig{Path: "/nonexistent/dir/combined_report.json"}, pub, mockLogger{})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, DefaultWatchDebounce, w.cfg.Debounce)
}
