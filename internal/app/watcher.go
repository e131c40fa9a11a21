package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultWatchDebounce is the quiet period after the last write of the
// answer file before it is published.
const DefaultWatchDebounce = 2 * time.Second

// WatcherConfig contains configuration for the answer file watcher.
type WatcherConfig struct {
	// Path of the answer file.
	Path     string
	Debounce time.Duration
}

// Watcher publishes the report every time the answer file is rewritten.
type Watcher struct {
	cfg       WatcherConfig
	publisher *Publisher
	logger    ports.Logger

	ready chan struct{}

	mu       sync.Mutex // guards debounce
	debounce *time.Timer
	running  sync.Mutex // serializes publishes
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher. Duplicate skipping is turned on for pub,
// since a rewrite with the same content must not be posted twice.
func NewWatcher(cfg WatcherConfig, pub *Publisher, logger ports.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultWatchDebounce
	}
	pub.cfg.SkipDuplicates = true
	return &Watcher{
		cfg:       cfg,
		publisher: pub,
		logger:    logger,
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the directory is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is canceled. It waits for an in-flight publish
// before returning.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.cfg.Path)
	dir := filepath.Dir(target)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	close(w.ready)
	w.logger.Info("watching answer file", log.String("path", target), log.Duration("debounce", w.cfg.Debounce))

	defer func() {
		w.mu.Lock()
		if w.debounce != nil && w.debounce.Stop() {
			w.wg.Done()
		}
		w.mu.Unlock()
		w.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.debounce = time.AfterFunc(w.cfg.Debounce, func() {
		defer w.wg.Done()
		w.publish(ctx)
	})
}

func (w *Watcher) publish(ctx context.Context) {
	w.running.Lock()
	defer w.running.Unlock()

	if ctx.Err() != nil {
		return
	}
	posted, err := w.publisher.Run(ctx)
	switch {
	case errors.Is(err, domain.ErrAlreadyPublished):
		w.logger.Info("report unchanged, not posted")
	case err != nil:
		w.logger.Error("publish failed",
			log.String("kind", domain.KindOf(err).String()),
			log.Int("posted", len(posted)),
			log.Err(err),
		)
	}
}
