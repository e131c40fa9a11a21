package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/metrics"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
	"github.com/bft-labs/chainreport/pkg/thread"
)

// PublisherConfig contains configuration for posting the report.
type PublisherConfig struct {
	// MaxLength is the chunk budget. Defaults to thread.DefaultMaxLength.
	MaxLength int

	// SkipDuplicates refuses to post a report identical to the last one
	// recorded in the state repository.
	SkipDuplicates bool

	// DryRun leaves the publish state untouched, so a rehearsal never
	// marks the report as posted.
	DryRun bool

	Now func() time.Time
}

// Publisher posts the saved report as a thread.
type Publisher struct {
	cfg     PublisherConfig
	store   ports.ReportStore
	poster  ports.Poster
	pacer   thread.Pacer
	state   ports.StateRepository
	history ports.HistoryStore
	logger  ports.Logger
	metrics *metrics.Recorder
}

// NewPublisher creates a publisher. state and history may be nil.
func NewPublisher(
	cfg PublisherConfig,
	store ports.ReportStore,
	poster ports.Poster,
	pacer thread.Pacer,
	state ports.StateRepository,
	history ports.HistoryStore,
	logger ports.Logger,
	rec *metrics.Recorder,
) *Publisher {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = thread.DefaultMaxLength
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if pacer == nil {
		pacer = thread.NewIntervalPacer(thread.DefaultInterval)
	}
	if rec == nil {
		rec = metrics.New()
	}
	return &Publisher{
		cfg:     cfg,
		store:   store,
		poster:  poster,
		pacer:   pacer,
		state:   state,
		history: history,
		logger:  logger,
		metrics: rec,
	}
}

// Chunks loads the report and splits it without posting.
func (p *Publisher) Chunks() ([]string, error) {
	report, err := p.store.LoadReport()
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	return thread.Split(report.Answer, p.cfg.MaxLength), nil
}

// Run loads the report, splits it and posts the chunks as a thread.
// Posts made before a failure are returned with the error and are kept in
// history.
func (p *Publisher) Run(ctx context.Context) (thread.Thread, error) {
	ctx, runID := ensureRunID(ctx)
	logger := runLogger(ctx, p.logger)

	report, err := p.store.LoadReport()
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if strings.TrimSpace(report.Answer) == "" {
		logger.Warn("report is empty, nothing to post")
		return nil, nil
	}

	digest := report.Digest()
	if p.cfg.SkipDuplicates && p.state != nil {
		last, err := p.state.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load publish state: %w", err)
		}
		if last.Digest == digest {
			return nil, fmt.Errorf("%w at %s", domain.ErrAlreadyPublished, last.PublishedAt.Format(time.RFC3339))
		}
	}

	chunks := thread.Split(report.Answer, p.cfg.MaxLength)
	logger.Info("report split", log.Int("chunks", len(chunks)), log.Int("max_length", p.cfg.MaxLength))

	pub := thread.NewPublisher(p.poster, p.pacer, logger)
	pub.SetObserver(p.metrics.ThreadObserver(logger))
	posted, err := pub.Publish(ctx, chunks)

	if herr := p.record(ctx, runID, posted); herr != nil {
		logger.Error("failed to record history", log.Err(herr))
	}

	if err != nil {
		if errors.Is(err, thread.ErrPostFailed) || errors.Is(err, thread.ErrMissingID) {
			err = fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return posted, fmt.Errorf("publish thread (%d of %d posted): %w", len(posted), len(chunks), err)
	}

	publishedAt := p.cfg.Now().UTC()
	if p.state != nil && len(posted) > 0 && !p.cfg.DryRun {
		state := domain.PublishState{
			Digest:      digest,
			PostIDs:     posted.IDs(),
			PublishedAt: publishedAt,
		}
		if err := p.state.Save(ctx, state); err != nil {
			return posted, fmt.Errorf("save publish state: %w", err)
		}
	}

	logger.Info("thread published",
		log.Int("posts", len(posted)),
		log.String("last_id", posted.LastID()),
		log.Time("published_at", publishedAt),
		log.Bool("dry_run", p.cfg.DryRun),
	)
	return posted, nil
}

func (p *Publisher) record(ctx context.Context, runID string, posted thread.Thread) error {
	if p.history == nil || len(posted) == 0 {
		return nil
	}
	now := p.cfg.Now().UTC()
	entries := make([]domain.HistoryEntry, 0, len(posted))
	for _, post := range posted {
		entries = append(entries, domain.HistoryEntry{
			RunID:    runID,
			Position: post.Index,
			PostID:   post.ID,
			ReplyTo:  post.ReplyTo,
			Text:     post.Text,
			PostedAt: now,
		})
	}
	return p.history.Append(ctx, entries)
}
